// Package catalog provides a SQLite-backed mirror of the last build with
// optional FTS5 full-text search.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS posts (
	slug           TEXT PRIMARY KEY,
	position       INTEGER NOT NULL,
	title          TEXT NOT NULL,
	date           TEXT NOT NULL DEFAULT '',
	date_formatted TEXT NOT NULL DEFAULT '',
	url            TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	tags           TEXT NOT NULL DEFAULT '[]',
	pinned         INTEGER NOT NULL DEFAULT 0,
	author         TEXT NOT NULL DEFAULT '',
	read_time      INTEGER NOT NULL DEFAULT 1,
	published      INTEGER NOT NULL DEFAULT 1,
	source         TEXT NOT NULL DEFAULT '',
	checksum       TEXT NOT NULL DEFAULT '',
	content        TEXT NOT NULL DEFAULT '',
	body_text      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS post_tags (
	slug TEXT NOT NULL,
	tag  TEXT NOT NULL,
	UNIQUE(slug, tag)
);

CREATE INDEX IF NOT EXISTS idx_posts_position ON posts(position);
CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);
CREATE INDEX IF NOT EXISTS idx_post_tags_tag ON post_tags(tag);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply core schema: %w", err)
	}
	if err := addColumn(conn, "posts", "published", "INTEGER NOT NULL DEFAULT 1"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: migrate: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// addColumn adds a column to a table created by an older schema.
func addColumn(conn *sql.DB, table, column, decl string) error {
	var n int
	err := conn.QueryRow(`SELECT count(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil || n > 0 {
		return err
	}
	_, err = conn.Exec(`ALTER TABLE ` + table + ` ADD COLUMN ` + column + ` ` + decl)
	return err
}
