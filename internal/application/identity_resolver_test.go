package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/pkg/helpers"
)

type resolverFixture struct {
	users    *fakeUsers
	store    *fakeStore
	jwt      *helpers.JWTManager
	resolver *IdentityResolver
}

func newResolverFixture(t *testing.T, failOpen bool) *resolverFixture {
	t.Helper()
	users := newFakeUsers()
	store := newFakeStore()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 0, 0)
	cache := NewSessionCache(store, time.Hour, quietLogger())
	require.NoError(t, users.Create(context.Background(), &entity.User{
		Username:  "alice",
		Email:     "alice@example.com",
		Confirmed: true,
		Role:      entity.RoleUser,
	}))
	return &resolverFixture{
		users:    users,
		store:    store,
		jwt:      jwt,
		resolver: NewIdentityResolver(jwt, users, cache, quietLogger(), failOpen),
	}
}

func (f *resolverFixture) token(t *testing.T, sub string) string {
	t.Helper()
	tok, _, err := f.jwt.GenerateAccessToken(sub)
	require.NoError(t, err)
	return tok
}

func TestResolve_MissLoadsAndCaches(t *testing.T) {
	f := newResolverFixture(t, false)
	ctx := context.Background()

	id, err := f.resolver.Resolve(ctx, f.token(t, "alice"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, entity.RoleUser, id.Role)
	assert.Equal(t, 1, f.users.lookups())
	assert.Equal(t, time.Hour, f.store.ttls["user:alice"])

	again, err := f.resolver.Resolve(ctx, f.token(t, "alice"))
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, f.users.lookups(), "second resolution must be served from cache")
}

func TestResolve_HitSkipsPersistence(t *testing.T) {
	f := newResolverFixture(t, false)
	ctx := context.Background()
	snapshot := entity.Identity{ID: "u-1", Username: "alice", Email: "old@example.com", Confirmed: true, Role: entity.RoleAdmin}
	require.NoError(t, f.resolver.Cache.Put(ctx, snapshot))

	id, err := f.resolver.Resolve(ctx, f.token(t, "alice"))
	require.NoError(t, err)
	assert.Equal(t, snapshot, id)
	assert.Zero(t, f.users.lookups())
}

func TestResolve_InvalidToken(t *testing.T) {
	f := newResolverFixture(t, false)
	ctx := context.Background()

	_, err := f.resolver.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, ErrCouldNotValidate)

	refresh, _, err := f.jwt.GenerateRefreshToken("alice")
	require.NoError(t, err)
	_, err = f.resolver.Resolve(ctx, refresh)
	assert.ErrorIs(t, err, ErrCouldNotValidate)
	assert.Zero(t, f.users.lookups())
}

func TestResolve_UnknownUser(t *testing.T) {
	f := newResolverFixture(t, false)

	_, err := f.resolver.Resolve(context.Background(), f.token(t, "ghost"))
	assert.ErrorIs(t, err, ErrCouldNotValidate)
	assert.NotContains(t, f.store.data, "user:ghost")
}

func TestResolve_CacheReadFailure(t *testing.T) {
	t.Run("fail closed", func(t *testing.T) {
		f := newResolverFixture(t, false)
		f.store.getErr = assert.AnError

		_, err := f.resolver.Resolve(context.Background(), f.token(t, "alice"))
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrCouldNotValidate)
		assert.Zero(t, f.users.lookups())
	})

	t.Run("fail open", func(t *testing.T) {
		f := newResolverFixture(t, true)
		f.store.getErr = assert.AnError

		id, err := f.resolver.Resolve(context.Background(), f.token(t, "alice"))
		require.NoError(t, err)
		assert.Equal(t, "alice", id.Username)
		assert.Equal(t, 1, f.users.lookups())
	})
}

func TestResolve_CacheWriteFailureStillResolves(t *testing.T) {
	f := newResolverFixture(t, false)
	f.store.setErr = assert.AnError

	id, err := f.resolver.Resolve(context.Background(), f.token(t, "alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
}

func TestResolve_CorruptSnapshotReloads(t *testing.T) {
	f := newResolverFixture(t, false)
	f.store.data["user:alice"] = []byte("nope")

	id, err := f.resolver.Resolve(context.Background(), f.token(t, "alice"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)
	assert.Equal(t, 1, f.users.lookups())
}
