package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/monkeython/multipla"
	"github.com/monkeython/multipla/discovery"
)

var resolveFallback string

var resolveCmd = &cobra.Command{
	Use:   "resolve NAME",
	Short: "Resolve a name to its highest-rated implementation",
	Long: `Resolve canonicalizes NAME into an extension point label and prints the
highest-rated implementation plugged into it. Without --fallback, an
extension point with nothing plugged in is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFallback, "fallback", "",
		"value to print when nothing is plugged in")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	provider, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, span := provider.Tracer().Start(ctx, "multipla.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("registry", cfg.Registry),
		attribute.String("name", name),
	)

	registry, err := powerUp(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var impl any
	if cfg.Cache.Enabled {
		resolver := multipla.NewCachedResolver(registry, cfg.Cache.TTL)
		impl, err = resolver.Resolve(ctx, name)
	} else {
		impl, err = registry.Resolve(name)
	}
	if err != nil {
		if errors.Is(err, multipla.ErrNotResolved) && cmd.Flags().Changed("fallback") {
			fmt.Fprintln(cmd.OutOrStdout(), resolveFallback)
			return nil
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	fmt.Fprintln(cmd.OutOrStdout(), renderImplementation(impl))
	return nil
}

// renderImplementation prints manifest-backed implementations by their
// metadata and anything else with plain formatting.
func renderImplementation(impl any) string {
	if plug, ok := impl.(discovery.ManifestPlug); ok {
		if plug.Description != "" {
			return fmt.Sprintf("%s\t%s", plug.ID, plug.Description)
		}
		return plug.ID
	}
	return fmt.Sprintf("%v", impl)
}
