package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/mapping-lia/internal/certs"
	"github.com/Veraticus/mapping-lia/internal/config"
	"github.com/Veraticus/mapping-lia/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built web frontend",
		Long: `Serve the single-page frontend from the build output directory. Unknown
paths fall back to index.html; /api paths are never served from here.
The listen address defaults to :3000 or the PORT environment variable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			if dist, _ := cmd.Flags().GetString("dist"); dist != "" {
				cfg.DistDir = config.ExpandPath(dist)
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.ServerAddr = addr
			}

			s := server.New(cfg.DistDir, slog.Default())
			if useTLS, _ := cmd.Flags().GetBool("tls"); useTLS {
				dir := config.ExpandPath(viper.GetString("server.cert_dir"))
				cert, err := certs.NewStore(dir, slog.Default()).Certificate()
				if err != nil {
					return fmt.Errorf("failed to prepare certificate: %w", err)
				}
				s.UseTLS(cert)
			}
			return s.ListenAndServe(cmd.Context(), cfg.ServerAddr)
		},
	}

	cmd.Flags().String("dist", "", "build output directory (default: dist)")
	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")

	return cmd
}
