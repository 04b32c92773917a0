package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/monkeython/multipla"
	"github.com/monkeython/multipla/rated"
)

var rateCmd = &cobra.Command{
	Use:   "rate LABEL ID=SCORE [ID=SCORE...]",
	Short: "Rate implementations of an extension point",
	Long: `Rate assigns scores to implementations already plugged into LABEL and
prints the resulting order. Scores for unnamed implementations are kept
unchanged. Rating an implementation that is not plugged in fails without
changing anything.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	label := args[0]

	_, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	scores, err := parseScores(args[1:])
	if err != nil {
		return err
	}

	registry, err := powerUp(ctx)
	if err != nil {
		return err
	}

	adapter, err := registry.Get(multipla.Canonicalize(label))
	if err != nil {
		return fmt.Errorf("no such extension point %q: %w", label, err)
	}
	if err := adapter.Rate(scores); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IMPLEMENTATION\tRATING")
	for _, entry := range adapter.Ranked() {
		rating, err := adapter.Rating(entry.Key)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%g\n", entry.Key, rating)
	}
	return w.Flush()
}

// parseScores turns ID=SCORE arguments into an ordered rating slice.
func parseScores(args []string) ([]rated.Rating, error) {
	ratings := make([]rated.Rating, 0, len(args))
	for _, arg := range args {
		id, raw, found := strings.Cut(arg, "=")
		if !found || id == "" {
			return nil, fmt.Errorf("expected ID=SCORE, got %q", arg)
		}
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score in %q: %w", arg, err)
		}
		if score < 0 {
			return nil, fmt.Errorf("score in %q must not be negative", arg)
		}
		ratings = append(ratings, rated.Rating{Key: id, Score: score})
	}
	return ratings, nil
}
