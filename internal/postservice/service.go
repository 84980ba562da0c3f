// Package postservice coordinates builds, the catalog and the posts
// directory for the preview API and the MCP server.
package postservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/builder"
	"github.com/starford/quire/internal/catalog"
	"github.com/starford/quire/internal/models"
	"github.com/starford/quire/internal/storage"
)

// Service coordinates the builder, the catalog and the posts storage.
type Service struct {
	builder *builder.Builder
	store   storage.Provider
	cat     catalog.Catalog
	logger  *slog.Logger

	mu    sync.Mutex // serialises builds
	hooks []func(*builder.Report)
}

// NewService creates a new post service.
func NewService(b *builder.Builder, store storage.Provider, cat catalog.Catalog, logger *slog.Logger) *Service {
	return &Service{builder: b, store: store, cat: cat, logger: logger}
}

// OnRebuild registers fn to run after every successful rebuild. Hooks must
// be registered before the service is shared.
func (s *Service) OnRebuild(fn func(*builder.Report)) {
	s.hooks = append(s.hooks, fn)
}

// Rebuild runs a full build, reloads the catalog from its report and runs
// the rebuild hooks. Concurrent calls run one at a time.
func (s *Service) Rebuild(ctx context.Context) (*builder.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := catalog.Sync(s.cat, report, s.logger); err != nil {
		return nil, fmt.Errorf("postservice: sync catalog: %w", err)
	}
	for _, fn := range s.hooks {
		fn(report)
	}
	return report, nil
}

// ListResult is one page of posts plus the category list.
type ListResult struct {
	Posts      []models.PostCard `json:"posts"`
	Categories []string          `json:"categories"`
	Total      int               `json:"total"`
}

// ListPosts returns post cards matching f together with every category.
func (s *Service) ListPosts(_ context.Context, f catalog.ListFilter) (*ListResult, error) {
	posts, err := s.cat.ListPosts(f)
	if err != nil {
		return nil, err
	}
	cats, err := s.cat.Categories()
	if err != nil {
		return nil, err
	}
	cards := make([]models.PostCard, len(posts))
	for i, p := range posts {
		cards[i] = p.Card()
	}
	return &ListResult{Posts: cards, Categories: cats, Total: len(cards)}, nil
}

// GetPost returns one post with its rendered content.
func (s *Service) GetPost(_ context.Context, slug string) (*models.Post, error) {
	return s.cat.GetPost(slug)
}

// Search delegates full-text search to the catalog.
func (s *Service) Search(_ context.Context, query string, limit int) ([]catalog.SearchResult, error) {
	return s.cat.Search(query, limit)
}

// Categories returns "All" followed by every category in use.
func (s *Service) Categories(_ context.Context) ([]string, error) {
	return s.cat.Categories()
}

// Stats summarises the catalog.
func (s *Service) Stats(_ context.Context) (models.Stats, error) {
	return s.cat.Stats()
}

// CreatePost writes a new source document for in, rebuilds the site and
// returns the built post. It returns apperr.ErrAlreadyExists when the
// document or its slug is already taken.
func (s *Service) CreatePost(ctx context.Context, in NewPost) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.ErrMissingTitle
	}
	src, slug, err := in.Source()
	if err != nil {
		return nil, err
	}
	name := slug + ".md"

	exists, err := s.store.Exists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("postservice: %s: %w", name, apperr.ErrAlreadyExists)
	}
	if _, err := s.cat.GetPost(slug); err == nil {
		return nil, fmt.Errorf("postservice: slug %s: %w", slug, apperr.ErrAlreadyExists)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if err := s.store.Write(name, src); err != nil {
		return nil, err
	}
	s.logger.Info("post created", slog.String("source", name), slog.String("slug", slug))

	if _, err := s.Rebuild(ctx); err != nil {
		return nil, err
	}
	return s.cat.GetPost(slug)
}
