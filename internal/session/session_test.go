package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

// fakeRedis is an in-memory stand-in for the redis client.
type fakeRedis struct {
	values  map[string]string
	lastTTL time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	f.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var deleted int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func TestSessionRoundTrip(t *testing.T) {
	client := newFakeRedis()
	store := NewStore(client, "test-secret", 2*time.Hour, nil)

	token, err := store.Create(context.Background(), Identity{Role: models.RoleAdmin, AccountID: 3})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 2*time.Hour, client.lastTTL)
	assert.Len(t, client.values, 1)

	identity, err := store.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
	assert.Equal(t, int64(3), identity.AccountID)
	assert.Zero(t, identity.ProfileID)
	assert.NotEmpty(t, identity.SessionID)
	assert.False(t, identity.CreatedAt.IsZero())
}

func TestResolveGarbageToken(t *testing.T) {
	store := NewStore(newFakeRedis(), "test-secret", time.Hour, nil)

	_, err := store.Resolve(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, "UNAUTHENTICATED"))
}

func TestResolveRejectsForeignSignature(t *testing.T) {
	client := newFakeRedis()
	issuer := NewStore(client, "other-secret", time.Hour, nil)
	store := NewStore(client, "test-secret", time.Hour, nil)

	token, err := issuer.Create(context.Background(), Identity{Role: models.RoleStudent, ProfileID: 9})
	require.NoError(t, err)

	_, err = store.Resolve(context.Background(), token)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, "UNAUTHENTICATED"))
}

func TestResolveDestroyedSession(t *testing.T) {
	client := newFakeRedis()
	store := NewStore(client, "test-secret", time.Hour, nil)

	token, err := store.Create(context.Background(), Identity{Role: models.RoleStudent, ProfileID: 9})
	require.NoError(t, err)

	require.NoError(t, store.Destroy(context.Background(), token))
	assert.Empty(t, client.values)

	_, err = store.Resolve(context.Background(), token)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, "UNAUTHENTICATED"))
	assert.Equal(t, "session expired", appErrors.FromError(err).Message)
}

func TestDestroyInvalidTokenIsNoOp(t *testing.T) {
	store := NewStore(newFakeRedis(), "test-secret", time.Hour, nil)
	assert.NoError(t, store.Destroy(context.Background(), "garbage"))
}

func TestTTLFallback(t *testing.T) {
	store := NewStore(newFakeRedis(), "test-secret", 0, nil)
	assert.Equal(t, 8*time.Hour, store.TTL())
}
