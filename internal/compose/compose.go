// Package compose fills the post page template with a post's fields.
package compose

import (
	"fmt"
	"strings"
)

// Template tokens, in the order sequential substitution applies them.
const (
	TokenTitle       = "{{TITLE}}"
	TokenDate        = "{{DATE}}"
	TokenDescription = "{{DESCRIPTION}}"
	TokenCategory    = "{{CATEGORY}}"
	TokenTags        = "{{TAGS}}"
	TokenContent     = "{{CONTENT}}"
)

// Mode selects how tokens are substituted.
type Mode string

const (
	// Simultaneous replaces every token in one pass. Substituted values are
	// never rescanned, so a title that contains "{{CONTENT}}" stays intact.
	Simultaneous Mode = "simultaneous"
	// Sequential replaces one token at a time in the fixed token order. A
	// value that contains a later token is overwritten by that token's value.
	Sequential Mode = "sequential"
)

// ParseMode maps a config string to a Mode. Empty selects Simultaneous.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Simultaneous:
		return Simultaneous, nil
	case Sequential:
		return Sequential, nil
	default:
		return "", fmt.Errorf("compose: unknown substitution mode %q", s)
	}
}

// Fields are the values substituted into the template. Date is the display
// form of the post date. Nothing is escaped.
type Fields struct {
	Title       string
	Date        string
	Description string
	Category    string
	Tags        []string
	Content     string
}

// Compose returns tpl with every token replaced by its value. Tokens missing
// from tpl are ignored.
func Compose(tpl string, f Fields, mode Mode) string {
	pairs := []string{
		TokenTitle, f.Title,
		TokenDate, f.Date,
		TokenDescription, f.Description,
		TokenCategory, f.Category,
		TokenTags, TagsHTML(f.Tags),
		TokenContent, f.Content,
	}

	if mode == Sequential {
		out := tpl
		for i := 0; i < len(pairs); i += 2 {
			out = strings.ReplaceAll(out, pairs[i], pairs[i+1])
		}
		return out
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// TagsHTML renders tags as adjacent <span class="tag"> elements.
func TagsHTML(tags []string) string {
	var b strings.Builder
	for _, tag := range tags {
		b.WriteString(`<span class="tag">`)
		b.WriteString(tag)
		b.WriteString(`</span>`)
	}
	return b.String()
}
