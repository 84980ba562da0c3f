//go:build sqlite_fts5

package catalog

import (
	"testing"

	"github.com/starford/quire/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts_fts`).Scan(&count); err != nil {
		t.Fatalf("posts_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	p := post("fts", "FTS Post", "2024-01-01", "", false, "search")
	p.Text = "Quire provides powerful full-text search capabilities."
	if err := db.Replace([]models.Post{p}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Slug != "fts" {
		t.Errorf("slug = %q", results[0].Slug)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_ReplaceClearsOldContent(t *testing.T) {
	db := testDB(t)
	old := post("evo", "Old", "2024-01-01", "", false)
	old.Text = "original text"
	_ = db.Replace([]models.Post{old})

	repl := post("evo", "New", "2024-01-01", "", false)
	repl.Text = "replacement text"
	_ = db.Replace([]models.Post{repl})

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
