package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/quantmind-br/flatpakman/internal/domain"
)

// Entry is a stored lint result
type Entry struct {
	Result    domain.LintResult `json:"result"`
	StoredAt  time.Time         `json:"stored_at"`
	ExpiresAt time.Time         `json:"expires_at,omitempty"`
}

// IsExpired returns true if the entry has expired. Entries without an
// expiry never do.
func (e *Entry) IsExpired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// TTL returns the remaining time-to-live
func (e *Entry) TTL() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResultStore keeps lint results in a domain.Cache as zstd-compressed JSON
type ResultStore struct {
	cache   domain.Cache
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewResultStore wraps cache. Entries expire after ttl; zero keeps them.
func NewResultStore(cache domain.Cache, ttl time.Duration) (*ResultStore, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &ResultStore{
		cache:   cache,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Get returns the result stored under key. Misses, expired entries and
// entries that cannot be decoded all report false.
func (s *ResultStore) Get(ctx context.Context, key string) (domain.LintResult, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return domain.LintResult{}, false
	}

	raw, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return domain.LintResult{}, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.IsExpired() {
		return domain.LintResult{}, false
	}
	return entry.Result, true
}

// Put stores result under key
func (s *ResultStore) Put(ctx context.Context, key string, result domain.LintResult) error {
	entry := Entry{
		Result:   result,
		StoredAt: time.Now(),
	}
	if s.ttl > 0 {
		entry.ExpiresAt = entry.StoredAt.Add(s.ttl)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, s.encoder.EncodeAll(raw, nil), s.ttl)
}

// Invalidate removes the result stored under key
func (s *ResultStore) Invalidate(ctx context.Context, key string) error {
	err := s.cache.Delete(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil
	}
	return err
}

// Close releases the codecs and the underlying cache
func (s *ResultStore) Close() error {
	s.decoder.Close()
	encErr := s.encoder.Close()
	return errors.Join(encErr, s.cache.Close())
}
