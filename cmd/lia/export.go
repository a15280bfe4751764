package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/mapping-lia/internal/cli"
	"github.com/Veraticus/mapping-lia/internal/config"
	"github.com/Veraticus/mapping-lia/internal/export"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export approved competences",
		Long: `Export every approved competence with its area, category and subcategory.

By default a workbook named approved_competences_YYYY-MM-DD.xlsx is written
to --dir. With --sheets the rows go to the configured Google spreadsheet.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("dir", "d", ".", "directory for the workbook")
	cmd.Flags().Bool("sheets", false, "write to Google Sheets instead of a file")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireLogin(); err != nil {
		return err
	}

	progress := cli.NewProgress(cmd.ErrOrStderr(), "Fetching approved competences")
	exporter := export.New(a.api, feedback.NewTerminal(cmd.OutOrStdout()),
		export.WithProgress(progress.Update),
		export.WithLogger(slog.Default()),
	)

	if toSheets, _ := cmd.Flags().GetBool("sheets"); toSheets {
		sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return fmt.Errorf("sheets configuration: %w", err)
		}
		w, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
		if err != nil {
			return err
		}
		_, err = exporter.ToSheets(ctx, w)
		progress.Done()
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	_, err = exporter.ToFile(ctx, config.ExpandPath(dir))
	progress.Done()
	return err
}
