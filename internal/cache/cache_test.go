package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantmind-br/flatpakman/internal/domain"
	"github.com/quantmind-br/flatpakman/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMemoryCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	return c
}

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name     string
		entry    *Entry
		expected bool
	}{
		{"not expired", &Entry{ExpiresAt: time.Now().Add(time.Hour)}, false},
		{"expired", &Entry{ExpiresAt: time.Now().Add(-time.Hour)}, true},
		{"no expiry", &Entry{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.IsExpired())
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	live := &Entry{ExpiresAt: time.Now().Add(time.Hour)}
	assert.Greater(t, live.TTL(), 59*time.Minute)

	dead := &Entry{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.Equal(t, time.Duration(0), dead.TTL())
}

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("a", "b")
	assert.Len(t, key, 64)
	assert.Equal(t, key, GenerateKey("a", "b"))
	assert.NotEqual(t, key, GenerateKey("ab"))
	assert.NotEqual(t, GenerateKey("ab", "c"), GenerateKey("a", "bc"))
}

func TestLintKey(t *testing.T) {
	key := LintKey("dir/org.example.App.yaml", "content", false)

	assert.Contains(t, key, PrefixLint+":")
	assert.Equal(t, key, LintKey("dir/./org.example.App.yaml", "content", false))
	assert.NotEqual(t, key, LintKey("dir/org.example.App.yaml", "content", true))
	assert.NotEqual(t, key, LintKey("dir/org.example.App.yaml", "changed", false))
	assert.NotEqual(t, key, LintKey("other/org.example.App.yaml", "content", false))
}

func TestNewBadgerCache(t *testing.T) {
	t.Run("in memory", func(t *testing.T) {
		c := newMemoryCache(t)
		assert.NoError(t, c.Close())
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cache")
		c, err := NewBadgerCache(Options{Directory: dir})
		require.NoError(t, err)
		require.NoError(t, c.Close())

		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})

	t.Run("default directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		c, err := NewBadgerCache(DefaultOptions())
		require.NoError(t, err)
		require.NoError(t, c.Close())

		_, err = os.Stat(filepath.Join(home, ".flatpakman", "cache"))
		assert.NoError(t, err)
	})
}

func TestBadgerCache_Operations(t *testing.T) {
	c := newMemoryCache(t)
	defer c.Close()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, c.Has(ctx, "missing"))

	require.NoError(t, c.Set(ctx, "key", []byte("original"), time.Hour))
	require.NoError(t, c.Set(ctx, "key", []byte("updated"), 0))
	assert.True(t, c.Has(ctx, "key"))

	value, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), value)

	require.NoError(t, c.Set(ctx, "other", []byte("x"), 0))
	assert.Equal(t, int64(2), c.Size())
	assert.Equal(t, int64(2), c.Stats()["entries"])

	require.NoError(t, c.Delete(ctx, "key"))
	assert.False(t, c.Has(ctx, "key"))

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

func TestResultStore(t *testing.T) {
	store, err := NewResultStore(newMemoryCache(t), time.Hour)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	key := LintKey("org.example.App.yaml", "content", false)

	_, ok := store.Get(ctx, key)
	assert.False(t, ok)

	result := domain.LintResult{
		Path:     "org.example.App.yaml",
		Kind:     "application",
		Valid:    true,
		ID:       "org.example.App",
		Modules:  3,
		MaxDepth: 2,
		URLs:     []string{"https://example.org/a.tar.gz"},
	}
	require.NoError(t, store.Put(ctx, key, result))

	got, ok := store.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, result, got)

	require.NoError(t, store.Invalidate(ctx, key))
	_, ok = store.Get(ctx, key)
	assert.False(t, ok)
}

func TestResultStore_CorruptEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockCache(ctrl)
	mock.EXPECT().Get(gomock.Any(), "key").Return([]byte("not zstd"), nil)
	mock.EXPECT().Close().Return(nil)

	store, err := NewResultStore(mock, 0)
	require.NoError(t, err)

	_, ok := store.Get(context.Background(), "key")
	assert.False(t, ok)
	assert.NoError(t, store.Close())
}

func TestResultStore_PutWithoutTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockCache(ctrl)
	mock.EXPECT().Set(gomock.Any(), "key", gomock.Any(), time.Duration(0)).Return(nil)

	store, err := NewResultStore(mock, 0)
	require.NoError(t, err)

	assert.NoError(t, store.Put(context.Background(), "key", domain.LintResult{Path: "a.json"}))
}
