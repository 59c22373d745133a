package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Print mesh information whenever the file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := time.ParseDuration(cfg.View.WatchDebounce)
	if err != nil {
		return fmt.Errorf("invalid watch_debounce: %w", err)
	}

	fw, err := watcher.NewFileWatcher(debounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	report := func(path string) {
		m, err := store.Load(path)
		if err != nil {
			slog.Error("failed to load mesh", "path", path, "err", err)
			return
		}
		printInfo(path, m)
		fmt.Println()
	}

	if err := fw.Watch([]string{args[0]}, report); err != nil {
		return err
	}
	fw.Start()

	report(args[0])
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()
	return nil
}
