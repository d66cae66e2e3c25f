package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jchantrell/i18npack/internal/asset"
	"github.com/jchantrell/i18npack/internal/config"
	"github.com/jchantrell/i18npack/internal/loader"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the assets a language resolves to",
	Long: `List loads the selected language and prints every lookup key per asset
class. Loose files are printed as their relative path; container entries are
prefixed with msgpack: or zst: followed by <container>/<path>. A loose path
that already starts with one of those tags is printed as loose:<path>.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, err := loader.ParseClasses(cfg.Classes)
		if err != nil {
			return err
		}

		l := loadLanguage()
		for _, c := range selected {
			for _, key := range l.Table(c).SortedPaths() {
				fmt.Printf("%s\t%s\n", c.Name, asset.ParseKey(key).Label())
			}
		}

		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <label>",
	Short: "Write one asset to stdout",
	Long: `Cat loads the selected language and writes the asset addressed by label to
stdout. Labels are printed by the list command; use --class to pick the class
when it is not script.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class := loader.Scripts
		if len(cfg.Classes) > 0 {
			selected, err := loader.ParseClasses(cfg.Classes)
			if err != nil {
				return err
			}
			class = selected[0]
		}

		l := loadLanguage()
		key := asset.ParseLabel(args[0])

		stream, err := l.Open(class, key.String())
		if err != nil {
			if errors.Is(err, asset.ErrNotFound) {
				return fmt.Errorf("no %s asset %q in %s", class.Name, args[0], cfg.Language)
			}
			return err
		}
		defer stream.Close()

		if _, err := io.Copy(os.Stdout, stream); err != nil {
			return fmt.Errorf("writing %s: %w", args[0], err)
		}
		return nil
	},
}

// loadLanguage builds a loader for the configured language
func loadLanguage() *loader.Loader {
	l := loader.New(slog.Default())
	stats := l.SelectLanguage(cfg.Language, config.LanguageRoot(cfg.Root, cfg.Language))
	if stats.Failed() > 0 {
		slog.Warn("Some containers could not be read", "failed", stats.Failed())
	}
	return l
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(catCmd)
}
