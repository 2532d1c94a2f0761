package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/quantmind-br/flatpakman/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FSReader reads manifests from the local filesystem
type FSReader struct {
	retrier *Retrier
}

// NewFSReader creates a filesystem reader. A nil retrier uses the defaults.
func NewFSReader(retrier *Retrier) *FSReader {
	if retrier == nil {
		retrier = NewRetrier(DefaultRetrierOptions())
	}
	return &FSReader{retrier: retrier}
}

// ReadFile reads path, retrying transient failures such as running out of
// file descriptors
func (r *FSReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := RetryWithValue(ctx, r.retrier, func() ([]byte, error) {
		return os.ReadFile(path)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return data, err
}

// DecodeText turns manifest bytes into text. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is dropped; bytes without one are read as
// UTF-8.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode manifest text: %w", err)
	}
	return string(out), nil
}
