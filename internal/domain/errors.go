package domain

import (
	"errors"
	"fmt"
	"syscall"
)

// Sentinel errors
var (
	// ErrNotFound indicates a file was not found
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrNotAManifest indicates a file name does not look like a manifest
	ErrNotAManifest = errors.New("not a Flatpak manifest")

	// ErrCycle indicates a manifest references itself through its module or source files
	ErrCycle = errors.New("manifest reference cycle")

	// ErrMaxDepth indicates referenced files are nested deeper than allowed
	ErrMaxDepth = errors.New("maximum reference depth exceeded")

	// ErrRevisionNotFound indicates a git revision could not be resolved
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")
)

// LoadError reports a manifest file that could not be read or parsed
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError
func NewLoadError(path string, err error) *LoadError {
	return &LoadError{
		Path: path,
		Err:  err,
	}
}

// RetryableError marks an error as transient
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if a read error should be retried. Running out of file
// descriptors and interrupted or would-block reads are transient.
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	return errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EINTR)
}
