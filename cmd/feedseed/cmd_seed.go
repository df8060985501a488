package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/akerr/feedseed/internal/feedcloud"
	"github.com/akerr/feedseed/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the demo dataset",
		Long: `seed creates the named demo actors (batman, fluff, justiceleague,
davidbowie) and thirty random users, establishes the follow graph, posts
the demo activities and fans out randomized reactions. Re-submitting an
already-stored reaction is tolerated; any other failure aborts the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, client, err := setup(cmd)
			if err != nil {
				return err
			}

			report, err := seed.New(client, log).Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}

			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// printReport writes the read-back of the first timeline activity in a
// stable order.
func printReport(w io.Writer, r *seed.Report) {
	fmt.Fprintln(w, "reaction counts:")
	for _, kind := range sortedKinds(r.ReactionCounts) {
		fmt.Fprintf(w, "  %s: %d\n", kind, r.ReactionCounts[kind])
	}
	fmt.Fprintln(w, "own reactions:")
	printReactions(w, r.OwnReactions)
	fmt.Fprintln(w, "latest reactions:")
	printReactions(w, r.LatestReactions)
}

func printReactions(w io.Writer, byKind map[string][]*feedcloud.Reaction) {
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		for _, r := range byKind[kind] {
			fmt.Fprintf(w, "  %s %s by %s\n", kind, r.ID, r.UserID)
		}
	}
}

func sortedKinds(counts map[string]int) []string {
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
