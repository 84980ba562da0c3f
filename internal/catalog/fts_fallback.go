//go:build !sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/quire/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; full-text search uses LIKE fallback on posts.body_text.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ models.Post) error {
	// Text is already stored in the posts table; nothing extra to do.
	return nil
}

func ftsClear(_ *sql.Tx) error { return nil }

// likeEscaper makes LIKE wildcards in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search performs a LIKE-based search over published posts (fallback when
// FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT slug, title, url, substr(body_text, 1, 200)
		FROM posts
		WHERE published = 1 AND (title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
			OR body_text LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')
		ORDER BY position
		LIMIT ?
	`, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Slug, &r.Title, &r.URL, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
