// Package bot wires the fetch-match-publish pipeline together.
//
// The pipeline is strictly sequential: one feed at a time, one entry at a
// time, one publish call at a time, with a fixed sleep after each publish.
// All run state (posted log, counters) is owned by the Bot, constructed
// once per invocation.
package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"papersbot/internal/compose"
	"papersbot/internal/config"
	"papersbot/internal/content"
	"papersbot/internal/feed"
	"papersbot/internal/match"
	"papersbot/internal/publish"
	"papersbot/internal/store"
)

// Target pairs a publisher with the composer holding that platform's
// length accounting.
type Target struct {
	Publisher publish.Publisher
	Composer  compose.Composer
}

// Params holds everything a Bot needs. Sleep and Logger default when nil.
type Params struct {
	Config     config.Config
	Feeds      []string
	Fetcher    *feed.Fetcher
	Matcher    *match.Matcher
	Downloader *content.Downloader
	Store      *store.Store
	Targets    []Target
	Logger     *logrus.Logger
	Sleep      func(time.Duration)
}

// Bot runs one pass over all feeds.
type Bot struct {
	cfg        config.Config
	feeds      []string
	fetcher    *feed.Fetcher
	matcher    *match.Matcher
	downloader *content.Downloader
	store      *store.Store
	targets    []Target
	blacklist  []*regexp.Regexp
	log        *logrus.Logger
	sleep      func(time.Duration)

	seen   int
	posted int
}

// New builds a Bot from params, compiling the configured blacklist.
func New(p Params) (*Bot, error) {
	blacklist, err := p.Config.CompileBlacklist()
	if err != nil {
		return nil, err
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.Sleep == nil {
		p.Sleep = time.Sleep
	}
	return &Bot{
		cfg:        p.Config,
		feeds:      p.Feeds,
		fetcher:    p.Fetcher,
		matcher:    p.Matcher,
		downloader: p.Downloader,
		store:      p.Store,
		targets:    p.Targets,
		blacklist:  blacklist,
		log:        p.Logger,
		sleep:      p.Sleep,
	}, nil
}

// Seen returns the number of relevant entries encountered this run.
func (b *Bot) Seen() int { return b.seen }

// Posted returns the number of entries published this run.
func (b *Bot) Posted() int { return b.posted }

// Run processes every feed once. It returns on the first fatal error: a
// feed that cannot be fetched, a rate limit, or any publish failure other
// than a duplicate rejection. Already-recorded entries stay recorded.
func (b *Bot) Run(ctx context.Context) error {
	b.log.WithFields(logrus.Fields{
		"feeds":  len(b.feeds),
		"posted": b.store.Count(),
	}).Infof("This is PapersBot running at %s", time.Now().Format("2006-01-02 15:04:05 MST"))

	if b.cfg.ShuffleFeeds {
		feed.Shuffle(b.feeds)
	}

	for _, feedURL := range b.feeds {
		parsed, err := b.fetcher.Fetch(ctx, feedURL)
		if err != nil {
			return fmt.Errorf("feed %s: %w", feedURL, err)
		}
		b.log.WithFields(logrus.Fields{
			"feed":    feedURL,
			"entries": len(parsed.Items),
		}).Debug("feed fetched")

		for _, item := range parsed.Items {
			done, err := b.processEntry(ctx, item)
			if err != nil {
				return err
			}
			if done {
				b.logStats()
				return nil
			}
		}
	}

	b.logStats()
	return nil
}

// processEntry handles one feed entry. The boolean reports whether the
// per-run throttle has been reached.
func (b *Bot) processEntry(ctx context.Context, item *gofeed.Item) (bool, error) {
	if !b.matcher.Matches(item) {
		return false, nil
	}
	b.seen++

	id, err := compose.CanonicalURL(item)
	if err != nil {
		b.log.WithField("title", item.Title).Warn("entry has no usable URL, skipping")
		return false, nil
	}
	if b.store.Contains(id) {
		return false, nil
	}

	if b.blacklisted(id) {
		b.log.WithField("url", id).Info("blacklisted, marking as handled")
		return false, b.store.Add(id)
	}

	if err := b.publishEntry(ctx, id, item); err != nil {
		return false, err
	}
	b.posted++

	if b.cfg.Throttle > 0 && b.posted >= b.cfg.Throttle {
		b.log.WithField("posted", b.posted).Info("throttle reached, stopping")
		return true, nil
	}
	b.sleep(time.Duration(b.cfg.WaitTime) * time.Second)
	return false, nil
}

// publishEntry records the entry and fans it out to every target.
// Record-then-attempt: the id is written before the first publish call, so
// a failed publish is never retried on a later run.
func (b *Bot) publishEntry(ctx context.Context, id string, item *gofeed.Item) error {
	if err := b.store.Add(id); err != nil {
		return err
	}

	title := content.CleanText(content.HTMLToText(item.Title))

	imagePath := ""
	if imgURL := content.FindImage(item); imgURL != "" {
		path, err := b.downloader.Download(ctx, imgURL)
		if err != nil {
			b.log.WithField("image", imgURL).WithError(err).Warn("image skipped")
		} else {
			imagePath = path
			defer func() { _ = os.Remove(path) }()
		}
	}

	for _, target := range b.targets {
		text, err := target.Composer.Compose(title, item)
		if err != nil {
			return fmt.Errorf("compose for %s: %w", target.Publisher.Name(), err)
		}

		res, err := target.Publisher.Publish(ctx, publish.Post{Text: text, ImagePath: imagePath})
		switch {
		case errors.Is(err, publish.ErrDuplicate):
			b.log.WithFields(logrus.Fields{
				"platform": target.Publisher.Name(),
				"url":      id,
			}).Info("platform reports duplicate, skipping")
		case err != nil:
			return fmt.Errorf("publish on %s: %w", target.Publisher.Name(), err)
		default:
			b.log.WithFields(logrus.Fields{
				"platform": target.Publisher.Name(),
				"post":     res.ID,
				"url":      id,
			}).Info("posted")
		}
	}
	return nil
}

func (b *Bot) blacklisted(id string) bool {
	for _, re := range b.blacklist {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}

func (b *Bot) logStats() {
	b.log.WithFields(logrus.Fields{
		"seen":   b.seen,
		"posted": b.posted,
	}).Info("run finished")
}
