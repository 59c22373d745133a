// Package cmd holds the command line of the interactive editor window
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/boxmod/internal/app"
	"github.com/philipparndt/boxmod/internal/config"
	"github.com/philipparndt/boxmod/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "boxmod-view <file>",
	Short: "Interactive box-modelling editor",
	Long: `boxmod-view opens a mesh file (.json, .yaml or .stl) in an editor window.
Faces and vertices are dragged with the mouse standing in for a hand; edits
are saved back with Ctrl+S and the file is reloaded when it changes on disk.
A file that does not exist yet starts out as a unit cube.`,
	Version:      version.GetFullVersion(),
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		log := cfg.Logger(os.Stderr)
		slog.SetDefault(log)

		return app.Run(app.Options{Path: args[0], Config: cfg, Logger: log})
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the TOML config file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
