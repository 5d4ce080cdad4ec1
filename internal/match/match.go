// Package match selects feed entries relevant to porous framework materials.
package match

import (
	"regexp"

	"github.com/mmcdole/gofeed"
)

// pattern covers the common names and abbreviations for the materials we
// track. The "." between words matches any connector (space, hyphen, en dash)
// since journals are not consistent about which one they use.
var pattern = regexp.MustCompile(`(?i)` +
	`\b(MOF|MOFs|COF|COFs|ZIF|ZIFs)\b` +
	`|metal.organic.framework` +
	`|covalent.organic.framework` +
	`|imidazolate.framework` +
	`|porous.coordination.polymer` +
	`|framework.material`)

// Matcher decides whether a feed entry is worth posting.
type Matcher struct {
	re *regexp.Regexp
}

// New creates a Matcher with the built-in subject pattern.
func New() *Matcher {
	return &Matcher{re: pattern}
}

// Matches reports whether the entry's title or summary mentions the subject
// area. Entries without a title are rejected; the summary is only consulted
// when the feed provides one.
func (m *Matcher) Matches(item *gofeed.Item) bool {
	if item == nil || item.Title == "" {
		return false
	}
	if m.re.MatchString(item.Title) {
		return true
	}
	if item.Description != "" {
		return m.re.MatchString(item.Description)
	}
	return false
}
