package stats

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherquest/featherquest/internal/storage"
)

func TestServiceAccumulatesAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	svc := NewService(ctx, kv, zerolog.Nop())
	svc.RecordAnswer(ctx, "nature", true)
	svc.RecordAnswer(ctx, "nature", false)
	svc.RecordAnswer(ctx, "science", true)
	svc.RecordGame(ctx)

	got := svc.Snapshot()
	assert.Equal(t, 3, got.QuestionsAnswered)
	assert.Equal(t, 2, got.CorrectAnswers)
	assert.Equal(t, 2, got.ByCategory["nature"])
	assert.Equal(t, 1, got.GamesPlayed)

	// A new service instance picks up persisted totals.
	reloaded := NewService(ctx, kv, zerolog.Nop())
	assert.Equal(t, got, reloaded.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, storage.NewMemory(), zerolog.Nop())
	svc.RecordAnswer(ctx, "history", true)

	snap := svc.Snapshot()
	snap.ByCategory["history"] = 99

	require.Equal(t, 1, svc.Snapshot().ByCategory["history"])
}
