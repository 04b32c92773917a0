package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List extension points and their rated implementations",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	registry, err := powerUp(ctx)
	if err != nil {
		return err
	}

	labels := registry.KeysByRating()
	if len(labels) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "registry %q has no extension points\n", registry.Label())
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EXTENSION POINT\tIMPLEMENTATION\tRATING")
	for _, label := range labels {
		adapter, err := registry.Get(label)
		if err != nil {
			continue // removed between snapshot and lookup
		}
		if adapter.Size() == 0 {
			fmt.Fprintf(w, "%s\t(empty)\t\n", label)
			continue
		}
		for _, entry := range adapter.Ranked() {
			rating, err := adapter.Rating(entry.Key)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%g\n", label, entry.Key, rating)
		}
	}
	return w.Flush()
}
