// Package report provides terminal output formatting for the top-tweets report.
package report

import (
	"fmt"
	"strings"

	"papersbot/internal/publish/twitter"
)

const separator = " • "

// Formatter formats ranked tweets for terminal display.
type Formatter struct{}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatTweet formats a single ranked tweet.
func (f *Formatter) FormatTweet(rank int, t twitter.Tweet) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("#%d %s", rank, firstLine(t.Text)))

	meta := fmt.Sprintf("  %d likes%s%d retweets", t.Likes, separator, t.Retweets)
	if !t.CreatedAt.IsZero() {
		meta += separator + t.CreatedAt.Format("2006-01-02")
	}
	lines = append(lines, meta)

	return strings.Join(lines, "\n") + "\n"
}

// FormatReport formats the whole ranked list.
func (f *Formatter) FormatReport(tweets []twitter.Tweet) string {
	if len(tweets) == 0 {
		return "No tweets found.\n"
	}

	var b strings.Builder
	for i, t := range tweets {
		b.WriteString(f.FormatTweet(i+1, t))
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
