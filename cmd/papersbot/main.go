// Package main provides the papersbot CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"papersbot/internal/bot"
	"papersbot/internal/compose"
	"papersbot/internal/config"
	"papersbot/internal/content"
	"papersbot/internal/feed"
	"papersbot/internal/match"
	"papersbot/internal/publish"
	"papersbot/internal/publish/bluesky"
	"papersbot/internal/publish/mastodon"
	"papersbot/internal/publish/twitter"
	"papersbot/internal/report"
	"papersbot/internal/store"
)

var version = "2.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath      string
	feedsPath       string
	postedPath      string
	credentialsPath string
	doNotTweet      bool
	topTweets       int
}

// newRootCmd creates the root command for the papersbot CLI.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "papersbot",
		Short:   "Read journal RSS feeds and post selected papers",
		Long:    "PapersBot reads journal RSS/Atom feeds, selects papers about framework materials, and posts them to X, Mastodon and Bluesky.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	rootCmd.SetVersionTemplate("papersbot version {{.Version}}\n")

	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "Path to the configuration file (default ./config.yml)")
	rootCmd.Flags().StringVar(&opts.feedsPath, "feeds", "feeds.txt", "Path to the feed list")
	rootCmd.Flags().StringVar(&opts.postedPath, "posted", "posted.dat", "Path to the posted log")
	rootCmd.Flags().StringVar(&opts.credentialsPath, "credentials", "credentials.yml", "Path to the credentials file")
	rootCmd.Flags().BoolVar(&opts.doNotTweet, "do-not-tweet", false, "Dry run: print posts instead of publishing them")
	rootCmd.Flags().IntVar(&opts.topTweets, "top-tweets", 0, "Report the top N posts by engagement and exit")

	rootCmd.AddCommand(newCheckActivityCmd())

	return rootCmd
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	// A .env next to the binary is a convenience for local runs.
	_ = godotenv.Load()
	log := newLogger()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if opts.topTweets > 0 {
		return runTopTweets(cmd, opts)
	}

	feeds, err := feed.ReadList(opts.feedsPath)
	if err != nil {
		return err
	}

	posted := store.New(opts.postedPath)
	if err := posted.Load(); err != nil {
		return err
	}

	targets, err := buildTargets(cfg, opts, log)
	if err != nil {
		return err
	}

	b, err := bot.New(bot.Params{
		Config:     cfg,
		Feeds:      feeds,
		Fetcher:    feed.NewFetcher(),
		Matcher:    match.New(),
		Downloader: content.NewDownloader(),
		Store:      posted,
		Targets:    targets,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	return b.Run(cmd.Context())
}

// buildTargets assembles one publisher per configured platform, or a single
// dry-run target when --do-not-tweet is set. A platform with no credentials
// is skipped; no platform at all is an error.
func buildTargets(cfg config.Config, opts *rootOptions, log *logrus.Logger) ([]bot.Target, error) {
	twitterComposer := compose.ForTwitter()
	twitterComposer.TagJournals = cfg.TagJournals

	if opts.doNotTweet {
		return []bot.Target{
			{Publisher: publish.NewDryRun(nil), Composer: twitterComposer},
		}, nil
	}

	var targets []bot.Target

	if creds, err := config.ResolveTwitter(os.Getenv, opts.credentialsPath); err == nil {
		targets = append(targets, bot.Target{
			Publisher: twitter.New(creds),
			Composer:  twitterComposer,
		})
	} else if !errors.Is(err, config.ErrNotConfigured) {
		return nil, err
	} else {
		log.Info("twitter not configured, skipping")
	}

	if creds, err := config.ResolveMastodon(os.Getenv, opts.credentialsPath); err == nil {
		targets = append(targets, bot.Target{
			Publisher: mastodon.New(creds),
			Composer:  compose.ForMastodon(),
		})
	} else if !errors.Is(err, config.ErrNotConfigured) {
		return nil, err
	} else {
		log.Info("mastodon not configured, skipping")
	}

	if creds, err := config.ResolveBluesky(os.Getenv, opts.credentialsPath); err == nil {
		targets = append(targets, bot.Target{
			Publisher: bluesky.New(creds),
			Composer:  compose.ForBluesky(),
		})
	} else if !errors.Is(err, config.ErrNotConfigured) {
		return nil, err
	} else {
		log.Info("bluesky not configured, skipping")
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no platform configured: set credentials or use --do-not-tweet")
	}
	return targets, nil
}

// runTopTweets prints the engagement report instead of running the pipeline.
func runTopTweets(cmd *cobra.Command, opts *rootOptions) error {
	creds, err := config.ResolveTwitter(os.Getenv, opts.credentialsPath)
	if err != nil {
		return fmt.Errorf("--top-tweets needs twitter credentials: %w", err)
	}

	client := twitter.New(creds)
	top, err := client.TopTweets(cmd.Context(), opts.topTweets)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.NewFormatter().FormatReport(top))
	return nil
}

// newCheckActivityCmd creates the check-activity subcommand: it fails when
// the posted log has not changed recently, which means the bot is stuck.
func newCheckActivityCmd() *cobra.Command {
	var postedPath string
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "check-activity",
		Short: "Fail when the posted log has not changed recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := store.New(postedPath).ModTime()
			if err != nil {
				return err
			}

			age := time.Since(mod)
			fmt.Fprintf(cmd.OutOrStdout(), "Last change to %s was %.2f hours ago\n", postedPath, age.Hours())
			if age > maxAge {
				return fmt.Errorf("no activity for %s, check the bot for problems", age.Round(time.Minute))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&postedPath, "posted", "posted.dat", "Path to the posted log")
	cmd.Flags().DurationVar(&maxAge, "max-age", 12*time.Hour, "Maximum acceptable age of the posted log")

	return cmd
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
