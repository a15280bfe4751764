package main

import (
	"log/slog"

	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/tui"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func consoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "console",
		Aliases: []string{"ui"},
		Short:   "Open the interactive review console",
		Long: `Open the terminal console: log in, review pending competences, browse
approved and rejected ones, and map new competences.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			nav := tui.NewNavigator()
			a, err := newApp(ctx, nav)
			if err != nil {
				return err
			}
			defer a.close()

			queue := &feedback.Queue{}
			list := a.list(queue)
			if err := list.Restore(ctx); err != nil {
				slog.Warn("Failed to restore review preferences", "error", err)
			}

			themeName, _ := cmd.Flags().GetString("theme")
			if themeName == "" {
				themeName = viper.GetString("console.theme")
			}

			return tui.Run(ctx, tui.Config{
				Auth:          a.api,
				Mapper:        a.api,
				Sessions:      a.sessions,
				List:          list,
				Notifications: queue,
			}, nav,
				tui.WithTheme(themes.GetTheme(themeName)),
				tui.WithLogger(slog.Default()),
				tui.WithRequestTimeout(viper.GetDuration("console.request_timeout")),
			)
		},
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")

	return cmd
}
