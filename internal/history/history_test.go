package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	run := &Run{
		ID:     uuid.NewString(),
		Source: "in.mp4",
		Output: "out.mp4",
		State:  "running",
	}
	require.NoError(t, store.RecordStart(ctx, run))

	run.Width, run.Height = 1920, 1080
	run.FPS = 30
	run.TotalFrames = 100
	run.FramesProcessed = 100
	run.MeanFPS = 42.5
	run.State = "completed"
	require.NoError(t, store.RecordFinish(ctx, run))

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "completed", got.State)
	assert.Equal(t, 100, got.FramesProcessed)
	assert.Equal(t, 42.5, got.MeanFPS)
	assert.False(t, got.StartedAt.IsZero())
	assert.False(t, got.FinishedAt.IsZero())
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		run := &Run{
			ID:        uuid.NewString(),
			Source:    "in.mp4",
			Output:    "out.mp4",
			State:     "completed",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.RecordStart(ctx, run))
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
}

func TestRecordFinishUnknownRun(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	err = store.RecordFinish(context.Background(), &Run{ID: "missing"})
	assert.Error(t, err)
}
