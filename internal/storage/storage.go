// Package storage persists generated datasets to an object store and mints
// time-limited download links for them.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the persistence surface the dispatcher writes datasets to.
// Implementations are best-effort from the caller's point of view: upload
// failures are logged, not propagated to the requester.
type ObjectStore interface {
	// Upload stores data under key with the given content type and
	// user-defined metadata, overwriting any existing object.
	Upload(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error

	// Download retrieves the object stored under key.
	Download(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// SignedURL mints a read-only URL for key that expires after ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ValidateKey rejects keys that would escape the namespace or confuse the
// backing store.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return errors.New("storage key must not be empty")
	case strings.HasPrefix(key, "/"):
		return errors.New("storage key must not start with /")
	case strings.Contains(key, ".."):
		return errors.New("storage key must not contain ..")
	}
	return nil
}
