package interview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweeperRemovesIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(ctx, &Session{ID: "idle", LastActiveAt: now.Add(-3 * time.Hour)}))
	require.NoError(t, store.Put(ctx, &Session{ID: "fresh", LastActiveAt: now.Add(-10 * time.Minute)}))
	require.NoError(t, store.Put(ctx, &Session{ID: "edge", LastActiveAt: now.Add(-2 * time.Hour)}))

	sweeper := NewSweeper(store, 2*time.Hour, time.Minute, zap.NewNop())
	sweeper.now = func() time.Time { return now }

	assert.Equal(t, 1, sweeper.Sweep(ctx))

	_, err := store.Get(ctx, "idle")
	assert.Equal(t, KindNotFound, KindOf(err))
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "edge")
	assert.NoError(t, err)

	assert.Equal(t, 0, sweeper.Sweep(ctx))
}

func TestSweeperDisabled(t *testing.T) {
	store := NewInMemoryStore()
	sweeper := NewSweeper(store, 0, time.Minute, zap.NewNop())

	sweeper.Start(context.Background())
	assert.Nil(t, sweeper.done)
	sweeper.Stop()
}

func TestSweeperLoop(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Put(ctx, &Session{ID: "old", LastActiveAt: time.Now().Add(-time.Hour)}))

	sweeper := NewSweeper(store, time.Minute, 10*time.Millisecond, zap.NewNop())
	sweeper.Start(ctx)
	defer sweeper.Stop()

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)
}
