// Package render converts post bodies from Markdown to HTML fragments.
package render

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Extension names understood by NewGoldmark.
const (
	ExtFencedCode = "fenced_code"
	ExtTables     = "tables"
	ExtCodeHilite = "codehilite"
	ExtNL2BR      = "nl2br"
	ExtSaneLists  = "sane_lists"
)

// DefaultExtensions is the extension set posts are rendered with.
var DefaultExtensions = []string{ExtFencedCode, ExtTables, ExtCodeHilite, ExtNL2BR, ExtSaneLists}

// KnownExtension reports whether name selects an extension. Matching ignores
// case and surrounding whitespace.
func KnownExtension(name string) bool {
	switch extKey(name) {
	case ExtFencedCode, ExtTables, ExtCodeHilite, ExtNL2BR, ExtSaneLists:
		return true
	}
	return false
}

func extKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Renderer converts a Markdown body to an HTML fragment.
type Renderer interface {
	Render(markdown []byte) ([]byte, error)
}

// Options configures a Goldmark renderer.
type Options struct {
	// Extensions lists extension names; nil selects DefaultExtensions.
	Extensions []string
	// HighlightStyle is the chroma style for codehilite.
	HighlightStyle string
}

// Goldmark renders Markdown with the goldmark engine. It is safe for
// concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

var _ Renderer = (*Goldmark)(nil)

// NewGoldmark builds a renderer for opts. Unknown extension names are
// ignored here; configuration rejects them through KnownExtension.
// fenced_code and sane_lists are CommonMark behaviour and need no extra
// extender.
func NewGoldmark(opts Options) *Goldmark {
	names := opts.Extensions
	if names == nil {
		names = DefaultExtensions
	}
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultStyle
	}

	var exts []goldmark.Extender
	rendererOptions := []renderer.Option{html.WithUnsafe()}
	seen := map[string]struct{}{}

	for _, name := range names {
		key := extKey(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		switch key {
		case ExtTables:
			exts = append(exts, extension.Table)
		case ExtCodeHilite:
			exts = append(exts, highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			))
		case ExtNL2BR:
			rendererOptions = append(rendererOptions, html.WithHardWraps())
		}
	}

	return &Goldmark{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(rendererOptions...),
	)}
}

// Render satisfies Renderer.
func (g *Goldmark) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("render: convert: %w", err)
	}
	return buf.Bytes(), nil
}
