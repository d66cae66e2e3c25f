package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/jchantrell/i18npack/internal/config"
)

var (
	cfg     *config.Config
	cfgFile string

	dbPath     string
	root       string
	language   string
	classes    []string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "i18npack",
	Short: "Translation asset packer and lookup tool",
	Long: `i18npack builds and inspects translation asset directories.

Each language directory holds Textures, Script and UI subdirectories. Script
and UI assets may be shipped loose or packed into MessagePack containers
(.msgpack), optionally zstd compressed (.zst). The pack and unpack commands
convert between directories and containers; list, cat and index load a
language the same way the game does and report what it resolves to.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("root") {
			cfg.Root = root
		}
		if cmd.Flags().Changed("language") {
			cfg.Language = language
		}
		if cmd.Flags().Changed("class") {
			cfg.Classes = classes
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		slog.SetDefault(slog.New(handler))

		slog.Debug("Configuration",
			"database", cfg.Database,
			"root", cfg.Root,
			"language", cfg.Language,
			"classes", cfg.Classes,
			"compression_level", cfg.CompressionLevel,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

// progressEnabled reports whether commands should draw progress bars
func progressEnabled() bool {
	return !noProgress && cfg.LogFormat != "json"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is i18npack.yaml in home or pwd)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "database", "", "manifest database file path")
	rootCmd.PersistentFlags().StringVar(&root, "root", "", "directory holding one subdirectory per language")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "language directory to load")
	rootCmd.PersistentFlags().StringSliceVar(&classes, "class", []string{}, "comma-separated asset classes (texture, ui, script)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
