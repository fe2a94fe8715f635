package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashIsSaltedAndVerifies(t *testing.T) {
	h := NewHasher(2)
	ctx := context.Background()

	a, err := h.Hash(ctx, "s3cret")
	require.NoError(t, err)
	b, err := h.Hash(ctx, "s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "same password must hash differently")
	assert.True(t, h.Verify(ctx, "s3cret", a))
	assert.True(t, h.Verify(ctx, "s3cret", b))
	assert.False(t, h.Verify(ctx, "wrong", a))
}

func TestHasher_VerifyMalformedHashIsFalse(t *testing.T) {
	h := NewHasher(1)
	assert.False(t, h.Verify(context.Background(), "anything", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify(context.Background(), "anything", ""))
}

func TestHasher_WaitsForSlotAndHonoursContext(t *testing.T) {
	h := NewHasher(1)
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, h.Verify(ctx, "pw", "irrelevant"))
}

func TestNewHasher_DefaultsWorkers(t *testing.T) {
	h := NewHasher(0)
	require.NotNil(t, h.sem)
	// at least one slot must be available
	assert.True(t, h.sem.TryAcquire(1))
	h.sem.Release(1)
}
