// Package storage keeps uploaded image bytes somewhere they can be read back later.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Open when no object exists under the name
var ErrNotFound = errors.New("stored object not found")

// ErrInvalidName is returned for names that would escape the store
var ErrInvalidName = errors.New("invalid stored object name")

// ImageStore persists uploaded files under flat, unique names
type ImageStore interface {
	// Save writes r under name and returns the backend specific location
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// Open returns a reader for a previously saved name
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes a saved name; removing a missing name is not an error
	Remove(ctx context.Context, name string) error
}

// CheckName rejects empty names and names containing path elements
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return ErrInvalidName
	}
	return nil
}
