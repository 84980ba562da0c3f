package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/models"
)

// AllCategories is the category filter value that matches every post.
const AllCategories = "All"

// ListFilter narrows ListPosts.
type ListFilter struct {
	Category string
	Tag      string
	// Limit > 0 puts pinned posts first and keeps at most Limit posts.
	Limit int
	// IncludeDrafts also returns posts that are not published.
	IncludeDrafts bool
}

// SearchResult represents one search hit.
type SearchResult struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

const postColumns = `slug, title, date, date_formatted, url, description, category,
	tags, pinned, author, read_time, published, source, checksum, content, body_text`

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(s rowScanner) (models.Post, error) {
	var (
		p         models.Post
		tags      string
		pinned    int
		published int
	)
	err := s.Scan(&p.Slug, &p.Title, &p.Date, &p.DateFormatted, &p.URL, &p.Description, &p.Category,
		&tags, &pinned, &p.Author, &p.ReadTime, &published, &p.Source, &p.Checksum, &p.Content, &p.Text)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil || p.Tags == nil {
		p.Tags = []string{}
	}
	p.Pinned = pinned != 0
	p.Published = published != 0
	return p, nil
}

// Replace discards the current contents and stores posts in the given order
// within one transaction. A later post with an already-seen slug replaces
// the earlier one.
func (db *DB) Replace(posts []models.Post) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, stmt := range []string{`DELETE FROM post_tags`, `DELETE FROM posts`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("catalog: clear: %w", err)
		}
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	insert, err := tx.Prepare(`
		INSERT OR REPLACE INTO posts (position, ` + postColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("catalog: prepare post insert: %w", err)
	}
	defer insert.Close()

	tagInsert, err := tx.Prepare(`INSERT OR IGNORE INTO post_tags (slug, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare tag insert: %w", err)
	}
	defer tagInsert.Close()

	for i, p := range posts {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, _ := json.Marshal(tags)
		_, err := insert.Exec(i, p.Slug, p.Title, p.Date, p.DateFormatted, p.URL, p.Description, p.Category,
			string(tagsJSON), boolInt(p.Pinned), p.Author, p.ReadTime, boolInt(p.Published),
			p.Source, p.Checksum, p.Content, p.Text)
		if err != nil {
			return fmt.Errorf("catalog: insert post %s: %w", p.Slug, err)
		}

		if _, err := tx.Exec(`DELETE FROM post_tags WHERE slug = ?`, p.Slug); err != nil {
			return fmt.Errorf("catalog: reset tags: %w", err)
		}
		for _, tag := range tags {
			if _, err := tagInsert.Exec(p.Slug, tag); err != nil {
				return fmt.Errorf("catalog: insert tag: %w", err)
			}
		}

		// FTS upsert (no-op when FTS5 tag is absent).
		if err := ftsUpsert(tx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetPost returns the post with the given slug, or apperr.ErrNotFound.
func (db *DB) GetPost(slug string) (*models.Post, error) {
	row := db.conn.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog: %s: %w", slug, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get post: %w", err)
	}
	return &p, nil
}

// ListPosts returns posts in index order (newest first), filtered by
// category and tag. An empty category or AllCategories matches everything.
// Drafts are left out unless f.IncludeDrafts is set.
func (db *DB) ListPosts(f ListFilter) ([]models.Post, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeDrafts {
		where = append(where, `published = 1`)
	}
	if f.Category != "" && f.Category != AllCategories {
		where = append(where, `category = ?`)
		args = append(args, f.Category)
	}
	if f.Tag != "" {
		where = append(where, `EXISTS (SELECT 1 FROM post_tags t WHERE t.slug = posts.slug AND t.tag = ?)`)
		args = append(args, f.Tag)
	}

	q := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	if f.Limit > 0 {
		q += ` ORDER BY pinned DESC, position LIMIT ?`
		args = append(args, f.Limit)
	} else {
		q += ` ORDER BY position`
	}

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list posts: %w", err)
	}
	defer rows.Close()

	out := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Categories returns AllCategories followed by every distinct non-empty
// category of a published post in alphabetical order.
func (db *DB) Categories() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT category FROM posts WHERE category != '' AND published = 1 ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("catalog: categories: %w", err)
	}
	defer rows.Close()

	out := []string{AllCategories}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Stats summarises the stored posts.
func (db *DB) Stats() (models.Stats, error) {
	var (
		s      models.Stats
		avg    sql.NullFloat64
		latest sql.NullString
		pinned sql.NullInt64
	)
	err := db.conn.QueryRow(`
		SELECT count(*),
		       count(DISTINCT NULLIF(category, '')),
		       avg(read_time),
		       max(NULLIF(date, '')),
		       sum(pinned)
		FROM posts
	`).Scan(&s.TotalPosts, &s.Categories, &avg, &latest, &pinned)
	if err != nil {
		return s, fmt.Errorf("catalog: stats: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT count(DISTINCT tag) FROM post_tags`).Scan(&s.Tags); err != nil {
		return s, fmt.Errorf("catalog: stats tags: %w", err)
	}
	if avg.Valid {
		s.AverageReadTime = avg.Float64
	}
	if latest.Valid {
		s.LatestPost = &latest.String
	}
	s.PinnedPosts = int(pinned.Int64)
	return s, nil
}

// Checksums returns the stored checksum of every post keyed by source path.
func (db *DB) Checksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT source, checksum FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("catalog: checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var src, cs string
		if err := rows.Scan(&src, &cs); err != nil {
			return nil, err
		}
		out[src] = cs
	}
	return out, rows.Err()
}
