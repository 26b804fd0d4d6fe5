//go:build unit

package booth_test

import (
	"testing"
	"time"

	"expo-booth-service/internal/domain/booth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		key, err := booth.NewKey("  A ", " A-101 ")
		require.NoError(t, err)
		assert.Equal(t, "A", key.Sector)
		assert.Equal(t, "A-101", key.Number)
		assert.Equal(t, "A-A-101", key.String())
	})

	t.Run("blank sector", func(t *testing.T) {
		_, err := booth.NewKey("   ", "A-101")
		assert.ErrorIs(t, err, booth.ErrBlankSector)
	})

	t.Run("blank number", func(t *testing.T) {
		_, err := booth.NewKey("A", "")
		assert.ErrorIs(t, err, booth.ErrBlankNumber)
	})
}

func TestNewBooth(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	key, err := booth.NewKey("A", "A-101")
	require.NoError(t, err)

	t.Run("basic success case", func(t *testing.T) {
		b, err := booth.NewBooth(key, 250_000, "standard", booth.StatusActive, now)
		require.NoError(t, err)
		assert.Equal(t, key, b.Key())
		assert.Equal(t, int64(250_000), b.PriceCents())
		assert.True(t, b.IsActive())
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := booth.NewBooth(key, 0, "standard", booth.StatusActive, now)
		assert.ErrorIs(t, err, booth.ErrInvalidPrice)
	})

	t.Run("blank type", func(t *testing.T) {
		_, err := booth.NewBooth(key, 100, "  ", booth.StatusActive, now)
		assert.ErrorIs(t, err, booth.ErrBlankType)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := booth.NewBooth(key, 100, "standard", booth.Status("closed"), now)
		assert.ErrorIs(t, err, booth.ErrInvalidStatus)
	})

	t.Run("inactive booth is not reservable", func(t *testing.T) {
		b, err := booth.NewBooth(key, 100, "standard", booth.StatusInactive, now)
		require.NoError(t, err)
		assert.False(t, b.IsActive())
	})
}
