package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/boxmod/internal/config"
	"github.com/philipparndt/boxmod/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	outputPath string

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "boxmod",
	Short: "Edit box-modelled meshes from the command line",
	Long: `boxmod creates, inspects and edits polygon meshes made of quads with shared
vertex groups: extrude faces, cut edge loops, weld coincident faces and replay
drags through the same engine the interactive editor uses.`,
	Version: version.GetFullVersion(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		slog.SetDefault(cfg.Logger(os.Stderr))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Write the result here instead of overwriting the input")
}

// target returns where an edited mesh loaded from input is written
func target(input string) string {
	if outputPath != "" {
		return outputPath
	}
	return input
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
