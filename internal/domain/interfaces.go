package domain

import (
	"context"
	"time"
)

// Reader reads manifest files. Paths are interpreted by the implementation:
// filesystem paths for the filesystem reader, slash paths relative to the
// repository root for the git reader.
type Reader interface {
	// ReadFile returns the raw content of a file
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Lister lists the files a Reader can read
type Lister interface {
	// ListFiles returns every file path, in a stable order
	ListFiles(ctx context.Context) ([]string, error)
}

// Cache defines the interface for lint result caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
