package api

import (
	"github.com/starford/quire/internal/catalog"
	"github.com/starford/quire/internal/models"
	"github.com/starford/quire/internal/postservice"
)

// CreatePostRequest is the request body for creating a post (aliased from the domain layer).
type CreatePostRequest = postservice.NewPost

// PostListResponse is the response of GET /blog (aliased from the domain layer).
type PostListResponse = postservice.ListResult

// PostResponse wraps a single post.
type PostResponse struct {
	Post *models.Post `json:"post" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = catalog.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// BuildResponse summarises a finished build.
type BuildResponse struct {
	ID       string `json:"id" example:"4f0c..." validate:"required"`
	Posts    int    `json:"posts" example:"12" validate:"required"`
	Skipped  int    `json:"skipped" example:"1" validate:"required"`
	Duration string `json:"duration" example:"12.5ms"`
}
