package auth_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/auth"
)

func newSessionStore(t *testing.T, ttl time.Duration) (*auth.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewStore(client, ttl), mr
}

func TestSessionRoundtrip(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, 42, "10.0.0.1", "go-test")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, int64(42), sess.UserID)

	got, err := store.Validate(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.ID, got.ID)
}

func TestValidateEmptyID(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	_, err := store.Validate(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrNoAccessSession)
}

func TestValidateUnknownID(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	_, err := store.Validate(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestValidateExpired(t *testing.T) {
	store, mr := newSessionStore(t, time.Minute)
	ctx := context.Background()

	// Seed a record whose deadline already passed while its redis key
	// is still alive, so the store's own expiry check decides rather
	// than TTL eviction.
	stale := auth.Session{
		ID:        "stale-session",
		UserID:    7,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	payload, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, mr.Set("session:"+stale.ID, string(payload)))

	_, err = store.Validate(ctx, stale.ID)
	if !assert.ErrorIs(t, err, auth.ErrExpiredSession) {
		return
	}

	// Expired sessions are removed on sight.
	_, err = store.Validate(ctx, stale.ID)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestDeleteSession(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, 9, "", "")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Validate(ctx, sess.ID)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)

	assert.NoError(t, store.Delete(ctx, "missing"), "deleting absent session is fine")
}
