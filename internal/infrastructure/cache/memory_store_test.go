package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetAndExpire(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	ctx := context.Background()
	base := time.Now()
	s.now = func() time.Time { return base }

	_, ok, err := s.Get(ctx, "user:alice")
	require.NoError(t, err)
	assert.False(t, ok)

	val := []byte("snapshot")
	require.NoError(t, s.Set(ctx, "user:alice", val, 10*time.Minute))
	val[0] = 'X' // stored copy must not alias the caller's buffer

	b, ok, err := s.Get(ctx, "user:alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "snapshot", string(b))

	b[0] = 'Y'
	b, _, _ = s.Get(ctx, "user:alice")
	assert.Equal(t, "snapshot", string(b))

	s.now = func() time.Time { return base.Add(10 * time.Minute) }
	_, ok, _ = s.Get(ctx, "user:alice")
	assert.False(t, ok)
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := NewMemoryStore(2, time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, s.Set(ctx, "c", []byte("3"), time.Minute))

	_, ok, _ := s.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "c")
	assert.True(t, ok)
}
