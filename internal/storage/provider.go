// Package storage defines the file-system abstraction for post sources and
// generated output.
package storage

import "github.com/starford/quire/internal/models"

// Provider is the interface for file operations rooted at one directory.
type Provider interface {
	// Root returns the absolute directory the provider is rooted at.
	Root() string
	// List returns metadata for every .md file directly inside dir (relative
	// to root), ordered by name.
	List(dir string) ([]models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Exists reports whether a file exists at path (relative to root).
	Exists(path string) (bool, error)
}
