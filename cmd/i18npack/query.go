package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jchantrell/i18npack/internal/database"
	"github.com/jchantrell/i18npack/internal/loader"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Query the asset manifest from the command line",
	Long: `Query executes SQL against a manifest written by the index command,
lists its tables, summarises the indexed languages, or prints the labels
recorded for the selected language and classes.

The assets table has one row per resolved asset with the columns language,
class, label, origin (loose, msgpack or zst), container, path, size and
source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listTables, err := cmd.Flags().GetBool("tables")
		if err != nil {
			return fmt.Errorf("failed to get tables flag: %w", err)
		}
		summary, err := cmd.Flags().GetBool("summary")
		if err != nil {
			return fmt.Errorf("failed to get summary flag: %w", err)
		}
		listLabels, err := cmd.Flags().GetBool("labels")
		if err != nil {
			return fmt.Errorf("failed to get labels flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"list-tables", listTables,
			"summary", summary,
			"labels", listLabels)

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		out := cmd.OutOrStdout()

		switch {
		case listTables:
			return printQuery(ctx, out, db, `
				SELECT name FROM sqlite_master
				WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
				ORDER BY name
			`)
		case summary:
			return printQuery(ctx, out, db, `
				SELECT language, class, origin, COUNT(*) AS assets, SUM(size) AS bytes
				FROM assets
				GROUP BY language, class, origin
				ORDER BY language, class, origin
			`)
		case listLabels:
			return printLabels(ctx, out, db)
		case len(args) > 0:
			return printQuery(ctx, out, db, args[0])
		}

		return fmt.Errorf("no query provided, use --tables to list tables, --summary to count assets or --labels to list labels")
	},
}

// printLabels prints "class<TAB>label" for every recorded asset of the
// configured language and classes
func printLabels(ctx context.Context, w io.Writer, db *database.Database) error {
	selected, err := loader.ParseClasses(cfg.Classes)
	if err != nil {
		return err
	}

	for _, c := range selected {
		labels, err := db.Labels(ctx, cfg.Language, c.Name)
		if err != nil {
			return fmt.Errorf("listing %s labels: %w", c.Name, err)
		}
		for _, label := range labels {
			fmt.Fprintf(w, "%s\t%s\n", c.Name, label)
		}
	}

	return nil
}

// printQuery runs query and prints the result as tab separated columns
func printQuery(ctx context.Context, w io.Writer, db *database.Database, query string) error {
	slog.Debug("Executing SQL query", "query", query)

	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting column names: %w", err)
	}

	// Print column headers
	fmt.Fprintln(w, strings.Join(columns, "\t"))

	// Print separator
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, strings.Repeat("-", len(col)))
	}
	fmt.Fprintln(w)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		for i, val := range values {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			switch v := val.(type) {
			case nil:
				fmt.Fprint(w, "NULL")
			case []byte:
				fmt.Fprint(w, string(v))
			default:
				fmt.Fprint(w, v)
			}
		}
		fmt.Fprintln(w)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("tables", false, "List available tables")
	queryCmd.Flags().Bool("summary", false, "Count indexed assets per language, class and origin")
	queryCmd.Flags().Bool("labels", false, "List recorded labels for --language and --class")
}
