package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobportal/internal/domain/auth"
)

func TestMemorySessionStore_CRUD(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySessionStore_Rotate(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Rotate(ctx, "old", domainauth.Session{ID: "new", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}))

	_, err := store.Get(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)
	got, err := store.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "u", got.UserID)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s", ExpiresAt: now.Add(time.Minute)}))
	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err := store.Get(ctx, "s")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestPlainHasher(t *testing.T) {
	var h PlainHasher
	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	require.NoError(t, h.Compare(hash, "secret1"))
	assert.ErrorIs(t, h.Compare(hash, "nope"), ErrMismatch)
	assert.ErrorIs(t, h.Compare("secret1", "secret1"), ErrMismatch)
}
