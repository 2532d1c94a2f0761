package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBar(t *testing.T) {
	t.Run("known total", func(t *testing.T) {
		var buf bytes.Buffer
		bar := NewProgressBar(3, DescLinting, &buf)
		require.NotNil(t, bar)

		require.NoError(t, bar.Add(1))
		assert.Contains(t, bar.String(), DescLinting)
	})

	t.Run("unknown total", func(t *testing.T) {
		bar := NewProgressBar(-1, DescResolving, nil)
		require.NotNil(t, bar)
		assert.NoError(t, bar.Add(1))
	})

	t.Run("finish", func(t *testing.T) {
		bar := NewProgressBar(2, DescConverting, nil)
		require.NoError(t, bar.Add(2))
		assert.NoError(t, bar.Finish())
	})
}
