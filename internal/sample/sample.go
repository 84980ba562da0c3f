// Package sample writes a demonstration post into a posts directory.
package sample

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"github.com/starford/quire/internal/storage"
)

// FileName is the name of the demonstration post.
const FileName = "sample-rag-guide.md"

//go:embed rag-guide.md
var content []byte

// Content returns the demonstration post source.
func Content() []byte {
	return append([]byte(nil), content...)
}

// Create writes the demonstration post into postsDir unless it already
// exists. postsDir is created when missing. It reports whether the file was
// written and the path it lives at.
func Create(postsDir string) (bool, string, error) {
	store, err := storage.EnsureFS(postsDir)
	if err != nil {
		return false, "", fmt.Errorf("sample: %w", err)
	}
	path := filepath.Join(store.Root(), FileName)

	exists, err := store.Exists(FileName)
	if err != nil {
		return false, path, fmt.Errorf("sample: %w", err)
	}
	if exists {
		return false, path, nil
	}
	if err := store.Write(FileName, content); err != nil {
		return false, path, fmt.Errorf("sample: %w", err)
	}
	return true, path, nil
}
