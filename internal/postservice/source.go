package postservice

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/metadata"
	"github.com/starford/quire/internal/parser"
)

const headerDelim = "---"

// tagEscaper removes the characters that delimit a bracketed list.
var tagEscaper = strings.NewReplacer(",", " ", "[", "", "]", "")

// NewPost holds the fields of a post to be written as a source document.
type NewPost struct {
	Title       string   `json:"title"`
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Pinned      bool     `json:"pinned,omitempty"`
	Author      string   `json:"author,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	Body        string   `json:"body"`
}

// Source renders p as a Markdown document with a header block and returns
// it along with the slug a build will give it. Values containing the header
// delimiter are rejected with apperr.ErrInvalidInput.
func (p NewPost) Source() ([]byte, string, error) {
	var b strings.Builder
	b.WriteString("---\n")
	field := func(key, value string) error {
		value, err := headerValue(key, value)
		if err != nil || value == "" {
			return err
		}
		b.WriteString(key + ": " + quoted(value) + "\n")
		return nil
	}
	for _, kv := range [][2]string{
		{"title", p.Title},
		{"slug", p.Slug},
		{"date", p.Date},
		{"description", p.Description},
		{"category", p.Category},
	} {
		if err := field(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if len(p.Tags) > 0 {
		items := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			t, err := headerValue("tags", tagEscaper.Replace(t))
			if err != nil {
				return nil, "", err
			}
			if t != "" {
				items = append(items, quoted(t))
			}
		}
		b.WriteString("tags: [" + strings.Join(items, ", ") + "]\n")
	}
	if p.Pinned {
		b.WriteString("pinned: " + strconv.FormatBool(p.Pinned) + "\n")
	}
	if err := field("author", p.Author); err != nil {
		return nil, "", err
	}
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(p.Body))
	b.WriteString("\n")

	src := []byte(b.String())
	fm, _ := parser.Parse(string(src))
	post, err := metadata.Normalize(fm, time.Now())
	if err != nil {
		return nil, "", err
	}
	return src, post.Slug, nil
}

// headerValue flattens v onto one line so it survives the header format.
func headerValue(key, v string) (string, error) {
	v = strings.Join(strings.Fields(v), " ")
	if strings.Contains(v, headerDelim) {
		return "", fmt.Errorf("postservice: %s must not contain %q: %w", key, headerDelim, apperr.ErrInvalidInput)
	}
	return v, nil
}

// quoted adds a quote layer to values the parser would otherwise unquote.
func quoted(v string) string {
	if len(v) >= 2 && v[0] == v[len(v)-1] && (v[0] == '"' || v[0] == '\'') {
		return `"` + v + `"`
	}
	return v
}
