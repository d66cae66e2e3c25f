package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/i18npack/internal/bundle"
	"github.com/jchantrell/i18npack/internal/packer"
	"github.com/jchantrell/i18npack/internal/utils"
)

var (
	packDirectory string
	packOutput    string
	packCompress  bool
	packLevel     string

	unpackFile   string
	unpackOutput string
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack a directory of text assets into a container",
	Long: `Pack reads every file below --directory, decodes it as text (honouring a
UTF-8 or UTF-16 byte order mark), trims surrounding whitespace and writes the
result into one MessagePack container keyed by relative path.

With --compress the container is zstd compressed and --output should use the
.zst extension. Both --directory and --output are required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		levelName := cfg.CompressionLevel
		if cmd.Flags().Changed("level") {
			levelName = packLevel
		}
		level, err := bundle.ParseLevel(levelName)
		if err != nil {
			return err
		}

		progress := utils.NewProgress(progressEnabled())
		start := time.Now()

		result, err := packer.Pack(packDirectory, packOutput, packCompress, packer.Options{
			Progress: progress.Update,
			Level:    level,
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("packing %s: %w", packDirectory, err)
		}

		slog.Info("Pack complete",
			"output", result.Path,
			"entries", utils.Number(int64(result.Entries)),
			"skipped", result.Skipped,
			"size", utils.Bytes(result.Bytes),
			"duration", utils.Duration(time.Since(start)))

		return nil
	},
}

var unpackCmd = &cobra.Command{
	Use:   "unpack",
	Short: "Extract a container into a directory",
	Long: `Unpack writes every entry of a .msgpack or .zst container to
<output>/<container name>/<entry path>. Entries whose path would leave that
directory are skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		progress := utils.NewProgress(progressEnabled())
		start := time.Now()

		result, err := packer.Unpack(unpackFile, unpackOutput, packer.Options{
			Progress: progress.Update,
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("unpacking %s: %w", unpackFile, err)
		}

		slog.Info("Unpack complete",
			"output", result.Path,
			"entries", utils.Number(int64(result.Entries)),
			"skipped", result.Skipped,
			"size", utils.Bytes(result.Bytes),
			"duration", utils.Duration(time.Since(start)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVarP(&packDirectory, "directory", "d", "", "directory to pack")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "container path to write (.msgpack, or .zst with --compress)")
	packCmd.Flags().BoolVarP(&packCompress, "compress", "c", false, "zstd compress the container")
	packCmd.Flags().StringVar(&packLevel, "level", "", "compression level (fastest, default, better, best)")
	packCmd.MarkFlagRequired("directory")
	packCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(unpackCmd)
	unpackCmd.Flags().StringVarP(&unpackFile, "file", "f", "", "container to extract")
	unpackCmd.Flags().StringVarP(&unpackOutput, "output", "o", "", "directory to extract into")
	unpackCmd.MarkFlagRequired("file")
	unpackCmd.MarkFlagRequired("output")
}
