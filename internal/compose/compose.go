// Package compose builds platform-length-bounded post bodies from feed entries.
package compose

import (
	"errors"
	"net/url"

	"github.com/mmcdole/gofeed"
)

// ErrNoUsableURL is returned when neither the entry id nor its link is a
// well-formed absolute URL. Such entries are skipped, not published.
var ErrNoUsableURL = errors.New("entry has no usable absolute URL")

// Composer computes the text budget for one platform and assembles the
// final post body. The reserved lengths account for the platform's URL
// shortening and for one media attachment.
type Composer struct {
	MaxLength   int
	URLLength   int
	ImageLength int
	TagJournals bool
}

// ForTwitter returns a Composer with the X/Twitter length accounting:
// 280 characters total, 24 reserved for the shortened URL, 25 for media.
func ForTwitter() Composer {
	return Composer{MaxLength: 280, URLLength: 24, ImageLength: 25}
}

// ForMastodon returns a Composer for Mastodon's 500-character statuses.
// Links count as 23 characters; media does not count against the limit.
func ForMastodon() Composer {
	return Composer{MaxLength: 500, URLLength: 23}
}

// ForBluesky returns a Composer for Bluesky's 300-grapheme posts. Links
// are not shortened, so a full DOI URL length is reserved.
func ForBluesky() Composer {
	return Composer{MaxLength: 300, URLLength: 80}
}

// Compose builds the post body: the cleaned title truncated to the budget,
// one space, and the entry's canonical URL. With TagJournals set, a known
// journal's handle is prepended to the URL and charged against the budget.
func (c Composer) Compose(title string, item *gofeed.Item) (string, error) {
	target, err := CanonicalURL(item)
	if err != nil {
		return "", err
	}

	budget := c.MaxLength - c.URLLength - c.ImageLength - 1
	if c.TagJournals {
		if handle := JournalHandle(target); handle != "" {
			budget -= len(handle) + 2
			target = "@" + handle + " " + target
		}
	}

	runes := []rune(title)
	if len(runes) > budget {
		runes = runes[:budget]
	}
	return string(runes) + " " + target, nil
}

// CanonicalURL picks the entry's dedup identifier: the feed-provided id
// when it is an absolute http(s) URL, else the entry link.
func CanonicalURL(item *gofeed.Item) (string, error) {
	if isAbsoluteURL(item.GUID) {
		return item.GUID, nil
	}
	if isAbsoluteURL(item.Link) {
		return item.Link, nil
	}
	return "", ErrNoUsableURL
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
