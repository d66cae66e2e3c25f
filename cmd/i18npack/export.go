package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/i18npack/internal/export"
	"github.com/jchantrell/i18npack/internal/loader"
	"github.com/jchantrell/i18npack/internal/utils"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the resolved assets of a language to a directory",
	Long: `Export loads the selected language and writes every resolved asset to
<output>/<class dir>/<origin>/<path>, where origin is loose, msgpack or zst.
Container entries are written as stored, so the output shows exactly what a
lookup returns.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		selected, err := loader.ParseClasses(cfg.Classes)
		if err != nil {
			return err
		}

		l := loadLanguage()

		progress := utils.NewProgress(progressEnabled())
		n, err := export.NewExporter(l, exportOutput).ExportClasses(selected, progress.Update)
		progress.Finish()
		if err != nil {
			return fmt.Errorf("exporting %s: %w", cfg.Language, err)
		}

		slog.Info("Export complete",
			"output", exportOutput,
			"assets", utils.Number(int64(n)),
			"duration", utils.Duration(time.Since(start)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "directory to export into")
	exportCmd.MarkFlagRequired("output")
}
