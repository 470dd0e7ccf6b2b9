package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	type settings struct {
		Difficulty string `json:"difficulty"`
		Timer      int    `json:"timer"`
	}

	var missing settings
	require.False(t, kv.Load(ctx, KeySettings, &missing))
	assert.Empty(t, missing.Difficulty, "miss leaves target untouched")

	kv.Save(ctx, KeySettings, settings{Difficulty: "hard", Timer: 12})

	var got settings
	require.True(t, kv.Load(ctx, KeySettings, &got))
	assert.Equal(t, settings{Difficulty: "hard", Timer: 12}, got)
}

func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	kv.Save(ctx, KeyStats, map[string]int{"games": 1})
	kv.Save(ctx, KeyStats, map[string]int{"games": 2})

	var got map[string]int
	require.True(t, kv.Load(ctx, KeyStats, &got))
	assert.Equal(t, 2, got["games"])
}
