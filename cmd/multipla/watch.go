package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/monkeython/multipla"
	"github.com/monkeython/multipla/discovery"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch manifest directories and print plugs as they are discovered",
	Long: `Watch powers up the configured registry, keeps watching the manifest
directories for new or changed manifests, and prints every implementation
as it is plugged in. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	dirs := manifestSources()
	if len(dirs) == 0 {
		return fmt.Errorf("no manifest directories to watch")
	}

	sources := make([]discovery.Source, len(dirs))
	for i, dir := range dirs {
		sources[i] = dir
	}

	registry, err := multipla.PowerUp(ctx, cfg.Registry, sources...)
	if err != nil {
		return err
	}

	// A second subscription on the same sources; the registry subscription
	// from PowerUp keeps feeding the registry independently.
	out := cmd.OutOrStdout()
	for _, source := range sources {
		err := source.Subscribe(ctx, cfg.Registry, func(p discovery.Plug) {
			fmt.Fprintf(out, "plugged %s.%s\n", multipla.Canonicalize(p.Label), p.ID)
		})
		if err != nil {
			return err
		}
	}

	watchers := make([]*discovery.Watcher, 0, len(dirs))
	defer func() {
		for _, w := range watchers {
			_ = w.Stop()
		}
	}()
	for _, dir := range dirs {
		w, err := discovery.NewWatcher(dir.Dir(), dir, cfg.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		watchers = append(watchers, w)
	}

	fmt.Fprintf(out, "watching %d manifest dir(s) for registry %q\n",
		len(dirs), registry.Label())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	return nil
}
