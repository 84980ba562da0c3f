package catalog

import "github.com/starford/quire/internal/models"

// Catalog defines the read and replace operations over built posts.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Catalog interface {
	Replace(posts []models.Post) error
	GetPost(slug string) (*models.Post, error)
	ListPosts(f ListFilter) ([]models.Post, error)
	Categories() ([]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Stats() (models.Stats, error)
	Checksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
