package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/akerr/feedseed/internal/config"
	"github.com/akerr/feedseed/internal/feedcloud"
	"github.com/akerr/feedseed/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "feedseed",
		Short: "Demo data seeder for the activity-feed service",
		Long: `feedseed populates a demo activity-feed application with sample users,
follows, activities and reactions, and can read back the resulting
enriched timeline.

Credentials come from STREAM_API_KEY, STREAM_API_SECRET, STREAM_APP_ID
and optionally STREAM_API_URL, or from a YAML config file.`,
	}

	rootCmd.PersistentFlags().String("config", "feedseed.yaml", "Path to an optional YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().String("backend", "stream", "Feed backend: stream or memory (offline dry run)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSeedCmd(),
		newTimelineCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "feedseed version %s\n", version)
		},
	}
}

// setup resolves configuration, builds the logger and constructs the
// selected backend client. Credentials are never validated locally; with
// the stream backend, blank values fail at first service use.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, feedcloud.Client, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	log := logging.NewLogger(level, cmd.ErrOrStderr())

	backend, _ := cmd.Flags().GetString("backend")
	var client feedcloud.Client
	switch backend {
	case "memory":
		client = feedcloud.NewMemoryClient()
	case "stream":
		client, err = feedcloud.NewStreamClient(feedcloud.StreamConfig{
			APIKey:    cfg.Stream.APIKey,
			APISecret: cfg.Stream.APISecret,
			AppID:     cfg.Stream.AppID,
			Region:    cfg.Stream.APIURL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
	default:
		return nil, nil, nil, fmt.Errorf("unknown backend %q (expected stream or memory)", backend)
	}

	log.Debug("resolved application credentials",
		"app_id", cfg.Stream.AppID,
		"api_key", logging.Mask(cfg.Stream.APIKey),
		"backend", backend,
	)
	return cfg, log, client, nil
}
