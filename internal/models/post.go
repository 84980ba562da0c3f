// Package models defines the domain types for quire.
package models

import "time"

// PostMetadata is one record of the posts index. Field order is the JSON
// key order of the index file.
type PostMetadata struct {
	Title         string   `json:"title"`
	Date          string   `json:"date"`
	DateFormatted string   `json:"dateFormatted"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Pinned        bool     `json:"pinned"`
}

// Post is a fully built post: index metadata plus the fields kept only by
// the catalog and the preview API. Drafts (Published false) are built but
// hidden from the preview API.
type Post struct {
	PostMetadata
	Slug      string `json:"slug"`
	Author    string `json:"author,omitempty"`
	ReadTime  int    `json:"readTime"`
	Published bool   `json:"published"`
	Source    string `json:"source"`
	Checksum  string `json:"checksum"`
	Content   string `json:"content,omitempty"`
	Text      string `json:"-"`
}

// PostCard is the lightweight list representation of a post.
type PostCard struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags"`
	Pinned      bool     `json:"pinned"`
	Published   bool     `json:"published"`
	Slug        string   `json:"slug"`
	ReadTime    int      `json:"readTime,omitempty"`
}

// Card returns the list representation of p.
func (p Post) Card() PostCard {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostCard{
		ID:          p.Slug,
		Title:       p.Title,
		Date:        p.Date,
		Description: p.Description,
		Category:    p.Category,
		Tags:        tags,
		Pinned:      p.Pinned,
		Published:   p.Published,
		Slug:        p.Slug,
		ReadTime:    p.ReadTime,
	}
}

// DocumentMeta describes a source document found in the posts directory.
type DocumentMeta struct {
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats summarises the catalog.
type Stats struct {
	TotalPosts      int     `json:"totalPosts"`
	Categories      int     `json:"categories"`
	Tags            int     `json:"tags"`
	AverageReadTime float64 `json:"averageReadTime"`
	LatestPost      *string `json:"latestPost"`
	PinnedPosts     int     `json:"pinnedPosts"`
}
