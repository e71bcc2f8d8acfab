package state

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisStorage_RoundTrip(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())
	ctx := context.Background()

	err := storage.SetSession(ctx, 42, &Session{
		UserID:       42,
		CurrentState: StateAwaitRarity,
		Draft:        CardDraft{Name: "Карта", ImageRef: "file-1"},
	})
	require.NoError(t, err)

	session, err := storage.GetSession(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitRarity, session.CurrentState)
	assert.Equal(t, "Карта", session.Draft.Name)
	assert.Equal(t, "file-1", session.Draft.ImageRef)
	assert.WithinDuration(t, time.Now().UTC(), session.UpdatedAt, time.Minute)
}

func TestRedisStorage_GetMissingSession(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())

	_, err := storage.GetSession(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_ClearSession(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())
	ctx := context.Background()

	require.NoError(t, storage.SetSession(ctx, 7, &Session{UserID: 7, CurrentState: StateAwaitPhoto}))
	require.NoError(t, storage.ClearSession(ctx, 7))

	_, err := storage.GetSession(ctx, 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_Sessions(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, storage.SetSession(ctx, id, &Session{UserID: id, CurrentState: StateAwaitName}))
	}

	sessions, err := storage.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)

	ids := make(map[int64]bool)
	for _, s := range sessions {
		ids[s.UserID] = true
	}
	assert.True(t, ids[1] && ids[2] && ids[3])
}
