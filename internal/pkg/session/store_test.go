package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore checks the behaviour every Store must share.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()
	s := Session{ID: uuid.NewString(), Username: "admin", ExpiresAt: time.Now().Add(time.Hour)}

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, s))
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)
	assert.WithinDuration(t, s.ExpiresAt, got.ExpiresAt, time.Second)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, s.ID))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			_ = store.Save(ctx, Session{ID: id, Username: "admin", ExpiresAt: time.Now().Add(time.Minute)})
			_, _ = store.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}

func TestMemoryStoreSaveDropsExpiredSessions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	stale := Session{ID: "stale", Username: "admin", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, store.Save(ctx, stale))
	require.NoError(t, store.Save(ctx, Session{ID: "live", Username: "admin", ExpiresAt: time.Now().Add(time.Hour)}))

	assert.Equal(t, 1, store.Len())
	_, err := store.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "live")
	assert.NoError(t, err)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{ExpiresAt: now.Add(time.Second)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, KeyPrefix: "edutrack:test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}
