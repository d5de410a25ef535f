package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow/internal/common/logger"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSnapshotCache(client, logger.NewNoOpLogger()), mr
}

func TestSnapshotCache_SaveLoadRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	l := New()
	l.Prepend(testApp("APP-A"))
	l.Prepend(testApp("APP-B"))

	cache.Save(ctx, "session-1", l)

	apps := cache.Load(ctx, "session-1")
	require.Len(t, apps, 2)
	assert.Equal(t, "APP-B", apps[0].ID, "snapshot preserves newest-first order")
	assert.Equal(t, "APP-A", apps[1].ID)
}

func TestSnapshotCache_LoadMissingKey(t *testing.T) {
	cache, _ := newTestCache(t)

	assert.Nil(t, cache.Load(context.Background(), "no-such-session"))
}

func TestSnapshotCache_LoadCorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, mr.Set(snapshotKey("session-1"), "not json"))

	assert.Nil(t, cache.Load(context.Background(), "session-1"))
}

func TestSnapshotCache_Delete(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	l := New(testApp("APP-A"))
	cache.Save(ctx, "session-1", l)
	require.True(t, mr.Exists(snapshotKey("session-1")))

	cache.Delete(ctx, "session-1")
	assert.False(t, mr.Exists(snapshotKey("session-1")))
}

func TestSnapshotCache_SaveFailureIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewSnapshotCache(client, logger.NewNoOpLogger())

	mock.Regexp().ExpectSet(snapshotKey("session-1"), `.*`, snapshotTTL).
		SetErr(errors.New("connection refused"))

	// Must not panic or propagate.
	cache.Save(context.Background(), "session-1", New(testApp("APP-A")))

	assert.NoError(t, mock.ExpectationsWereMet())
}
