// Package testutil provides shared test helpers for setting up sites and catalogs.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/quire/internal/builder"
	"github.com/starford/quire/internal/catalog"
	"github.com/starford/quire/internal/render"
)

// Template is a minimal page template using every token.
const Template = `<html><head><title>{{TITLE}}</title></head><body>
<h1>{{TITLE}}</h1><time>{{DATE}}</time><p>{{DESCRIPTION}}</p><span>{{CATEGORY}}</span>
<div>{{TAGS}}</div><article>{{CONTENT}}</article></body></html>`

// TestCatalog creates a temporary SQLite catalog that is automatically cleaned up.
func TestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "quire-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSite creates a temporary site with a template and the given posts,
// keyed by file name.
func TestSite(t *testing.T, posts map[string]string) builder.Site {
	t.Helper()
	root := t.TempDir()
	site := builder.Site{
		PostsDir:     filepath.Join(root, "_posts"),
		OutputDir:    filepath.Join(root, "blog"),
		TemplateFile: filepath.Join(root, "blog-template.html"),
		IndexFile:    filepath.Join(root, "_posts", "posts.json"),
		URLPrefix:    "blog/",
	}
	if err := os.MkdirAll(site.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(site.TemplateFile, []byte(Template), 0o644); err != nil {
		t.Fatal(err)
	}
	for name, content := range posts {
		if err := os.WriteFile(filepath.Join(site.PostsDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return site
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestBuilder creates a builder for site with the default renderer.
func TestBuilder(site builder.Site) *builder.Builder {
	return builder.New(site, render.NewGoldmark(render.Options{}), builder.WithLogger(Logger()))
}
