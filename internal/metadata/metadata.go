// Package metadata turns a parsed post header into a normalised Post with
// defaults applied and derived fields computed.
package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/models"
	"github.com/starford/quire/internal/parser"
)

const (
	// DateLayout is the layout of the date header and of the index.
	DateLayout = "2006-01-02"
	// DisplayLayout renders dates as "September 15, 2024".
	DisplayLayout = "January 02, 2006"
	// parseLayout also accepts unpadded months and days, as in 2024-9-5.
	parseLayout = "2006-1-2"

	DefaultCategory = "Uncategorized"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize builds a Post from fm. today supplies the date of posts without
// a date header. It returns apperr.ErrMissingTitle when fm has no title; all
// other fields fall back to their defaults.
//
// URL, content and the catalog-only fields are left for the caller.
func Normalize(fm parser.Frontmatter, today time.Time) (models.Post, error) {
	title, ok := fm.String("title")
	if !ok {
		return models.Post{}, apperr.ErrMissingTitle
	}

	date := fm.StringOr("date", today.Format(DateLayout))

	tags, ok := fm.List("tags")
	if !ok || tags == nil {
		tags = []string{}
	}

	return models.Post{
		PostMetadata: models.PostMetadata{
			Title:         title,
			Date:          date,
			DateFormatted: FormatDate(date),
			Description:   fm.StringOr("description", ""),
			Category:      fm.StringOr("category", DefaultCategory),
			Tags:          tags,
			Pinned:        strings.ToLower(fm.StringOr("pinned", "false")) == "true",
		},
		Slug:      postSlug(fm, title),
		Author:    fm.StringOr("author", ""),
		Published: strings.ToLower(fm.StringOr("published", "true")) == "true",
	}, nil
}

// FormatDate renders a YYYY-MM-DD date for display. Month and day may be
// unpadded. Input that is not a valid calendar date is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(parseLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayLayout)
}

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	s = nonSlugRe.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// postSlug prefers an explicit slug header. When neither the header nor the
// title leaves any slug characters, the slug is derived from a hash of the
// title so it stays stable across builds.
func postSlug(fm parser.Frontmatter, title string) string {
	if explicit, ok := fm.String("slug"); ok {
		if s := Slugify(explicit); s != "" {
			return s
		}
	}
	if s := Slugify(title); s != "" {
		return s
	}
	return "post-" + checksum.Short([]byte(title), 12)
}
