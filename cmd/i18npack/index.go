package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/i18npack/internal/database"
	"github.com/jchantrell/i18npack/internal/loader"
	"github.com/jchantrell/i18npack/internal/utils"
)

var indexBatchSize int

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Record the resolved assets of a language in SQLite",
	Long: `Index loads the selected language and writes one row per resolved asset
into the manifest database: its label, origin, container, path and size.
Re-indexing a language replaces its earlier rows. Use the query command to
inspect the result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		start := time.Now()

		selected, err := loader.ParseClasses(cfg.Classes)
		if err != nil {
			return err
		}

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := db.CreateSchema(ctx); err != nil {
			return err
		}

		exists, err := db.HasLanguage(ctx, cfg.Language)
		if err != nil {
			return err
		}
		if exists {
			slog.Info("Replacing existing manifest", "language", cfg.Language)
		}

		l := loadLanguage()

		writer := database.NewManifestWriter(db, indexBatchSize)
		if err := writer.WriteLanguage(ctx, cfg.Language, l.Root()); err != nil {
			return err
		}

		progress := utils.NewProgress(progressEnabled())
		total := 0
		for i, c := range selected {
			progress.Update(i, len(selected), c.Name)
			n, err := writer.WriteTable(ctx, cfg.Language, c.Name, l.Table(c))
			if err != nil {
				progress.Finish()
				return fmt.Errorf("writing %s manifest: %w", c.Name, err)
			}
			total += n
		}
		progress.Update(len(selected), len(selected), "done")
		progress.Finish()

		elapsed := time.Since(start)
		slog.Info("Index complete",
			"database", db.Path(),
			"language", cfg.Language,
			"rows", utils.Number(int64(total)),
			"rows_per_second", utils.Rate(float64(total)/max(elapsed.Seconds(), 0.001)),
			"duration", utils.Duration(elapsed))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().IntVar(&indexBatchSize, "batch-size", 1000, "rows per insert transaction")
}
