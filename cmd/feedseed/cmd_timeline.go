package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akerr/feedseed/internal/feedcloud"
	"github.com/akerr/feedseed/internal/provider"
)

func newTimelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline [user]",
		Short: "Read back a user's enriched timeline",
		Long: `timeline fetches the timeline feed for the given user (default
batman) with reaction counts, own reactions and recent reactions, and
prints one line per activity.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := "batman"
			if len(args) == 1 {
				userID = args[0]
			}

			cfg, _, client, err := setup(cmd)
			if err != nil {
				return err
			}

			token, err := client.CreateUserToken(userID)
			if err != nil {
				return err
			}
			app, err := provider.New(provider.Config{
				AppID:  cfg.Stream.AppID,
				APIKey: cfg.Stream.APIKey,
				Token:  token,
				UserID: userID,
				Client: client,
			})
			if err != nil {
				return err
			}

			activities, err := app.CurrentFeed("timeline").Activities(cmd.Context(),
				feedcloud.WithReactionCounts(),
				feedcloud.WithOwnReactions(),
				feedcloud.WithRecentReactions(),
			)
			if err != nil {
				return fmt.Errorf("read timeline for %s: %w", userID, err)
			}

			out := cmd.OutOrStdout()
			if len(activities) == 0 {
				fmt.Fprintf(out, "timeline for %s is empty\n", userID)
				return nil
			}
			for _, a := range activities {
				fmt.Fprintf(out, "%s %s %s", a.Actor, a.Verb, a.ForeignID)
				for _, kind := range sortedKinds(a.ReactionCounts) {
					fmt.Fprintf(out, " %s=%d", kind, a.ReactionCounts[kind])
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
