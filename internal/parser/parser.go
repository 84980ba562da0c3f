// Package parser extracts the key-value header block from Markdown posts.
package parser

import (
	"strings"
)

const delim = "---"

// Value is one header value. List values come from a bracketed raw value;
// everything else is a scalar string.
type Value struct {
	Raw    string
	Str    string
	Items  []string
	IsList bool
}

// Text returns the scalar form of v. For list values this is the raw text.
func (v Value) Text() string {
	if v.IsList {
		return v.Raw
	}
	return v.Str
}

// Frontmatter maps header keys to their values.
type Frontmatter map[string]Value

// Has reports whether key was present in the header.
func (fm Frontmatter) Has(key string) bool {
	_, ok := fm[key]
	return ok
}

// String returns the scalar text of key.
func (fm Frontmatter) String(key string) (string, bool) {
	v, ok := fm[key]
	if !ok {
		return "", false
	}
	return v.Text(), true
}

// StringOr returns the scalar text of key, or def when key is absent.
func (fm Frontmatter) StringOr(key, def string) string {
	if s, ok := fm.String(key); ok {
		return s
	}
	return def
}

// List returns the items of key when it holds a list value.
func (fm Frontmatter) List(key string) ([]string, bool) {
	v, ok := fm[key]
	if !ok || !v.IsList {
		return nil, false
	}
	return v.Items, true
}

// Parse splits content into its header and body. It never fails: content
// without a leading delimiter, or with an opening delimiter that is never
// closed, yields an empty Frontmatter and the original content as body.
func Parse(content string) (Frontmatter, string) {
	fm := Frontmatter{}
	if !strings.HasPrefix(content, delim) {
		return fm, content
	}

	end := strings.Index(content[len(delim):], delim)
	if end < 0 {
		return fm, content
	}
	end += len(delim)

	header := strings.TrimSpace(content[len(delim):end])
	body := strings.TrimSpace(content[end+len(delim):])

	for _, line := range strings.Split(header, "\n") {
		key, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fm[strings.TrimSpace(key)] = parseValue(strings.TrimSpace(raw))
	}
	return fm, body
}

func parseValue(raw string) Value {
	if len(raw) >= 2 && strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var items []string
		for _, item := range strings.Split(raw[1:len(raw)-1], ",") {
			item = strings.TrimSpace(unquote(strings.TrimSpace(item)))
			if item == "" {
				continue
			}
			items = append(items, item)
		}
		if items == nil {
			items = []string{}
		}
		return Value{Raw: raw, Items: items, IsList: true}
	}
	return Value{Raw: raw, Str: strings.TrimSpace(unquote(raw))}
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
