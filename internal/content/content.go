// Package content cleans entry text and locates illustrative images.
package content

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

var (
	// Version/category tags that arXiv appends to entry titles,
	// e.g. "(arXiv:1903.00279v1 [cond-mat.mtrl-sci])".
	arxivTag   = regexp.MustCompile(`\(arXiv:[^)]*\)`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CleanText removes the noise some journals insert into feed titles:
// "[ASAP]" markers, stray line feeds and arXiv version tags. Runs of
// whitespace are collapsed and the result is trimmed.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "[ASAP]", "")
	s = strings.ReplaceAll(s, "\n", "")
	s = arxivTag.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// HTMLToText converts an HTML fragment to its plain-text content.
// The input is returned unchanged if it cannot be parsed.
func HTMLToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// FindImage extracts the URL of the first <img> in the entry's HTML
// description (or content, when there is no description). A root-relative
// src is resolved against the origin of the entry's own URL. Returns ""
// when the entry carries no image.
func FindImage(item *gofeed.Item) string {
	html := item.Description
	if html == "" {
		html = item.Content
	}
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, ok := doc.Find("img").First().Attr("src")
	if !ok || src == "" {
		return ""
	}

	if strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//") {
		origin := entryOrigin(item)
		if origin == "" {
			return ""
		}
		src = origin + src
	}
	return src
}

// entryOrigin returns "scheme://host" for the entry's canonical URL.
func entryOrigin(item *gofeed.Item) string {
	for _, candidate := range []string{item.GUID, item.Link} {
		u, err := url.Parse(candidate)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}
	return ""
}
