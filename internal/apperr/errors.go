// Package apperr holds the sentinel errors shared across quire packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrMissingTitle marks a document whose header has no title key.
	// The build skips such documents instead of failing.
	ErrMissingTitle = errors.New("missing title")

	// ErrInvalidInput marks a request value that cannot be stored as given.
	ErrInvalidInput = errors.New("invalid input")

	ErrSourceMissing   = errors.New("posts directory not found")
	ErrTemplateMissing = errors.New("template file not found")
)
