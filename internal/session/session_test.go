package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcenter/console-api/pkg/config"
	appErrors "github.com/edcenter/console-api/pkg/errors"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(NewMemoryStore(), config.SessionConfig{Secret: "test-secret", TTL: ttl}, nil)
}

func TestSessionOpenResolveRoundtrip(t *testing.T) {
	m := newTestManager(time.Hour)
	ctx := context.Background()

	token, err := m.Open(ctx, "upstream-bearer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "upstream-bearer", resolved)
}

func TestSessionResolveRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour)

	_, err := m.Resolve(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}

func TestSessionResolveRejectsWrongSecret(t *testing.T) {
	issuer := newTestManager(time.Hour)
	token, err := issuer.Open(context.Background(), "upstream-bearer")
	require.NoError(t, err)

	other := NewManager(NewMemoryStore(), config.SessionConfig{Secret: "different-secret", TTL: time.Hour}, nil)
	_, err = other.Resolve(context.Background(), token)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}

func TestSessionResolveAfterCloseReportsExpired(t *testing.T) {
	m := newTestManager(time.Hour)
	ctx := context.Background()
	token, err := m.Open(ctx, "upstream-bearer")
	require.NoError(t, err)

	require.NoError(t, m.Close(ctx, token))

	_, err = m.Resolve(ctx, token)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSessionExpired))
}

func TestSessionStoreExpiryReportsExpired(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, config.SessionConfig{Secret: "test-secret", TTL: time.Hour}, nil)
	ctx := context.Background()
	token, err := m.Open(ctx, "upstream-bearer")
	require.NoError(t, err)

	// Simulate the Redis key expiring before the JWT does.
	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "upstream-bearer", resolved)

	store.mu.Lock()
	for id, entry := range store.entries {
		entry.expiresAt = time.Now().Add(-time.Minute)
		store.entries[id] = entry
	}
	store.mu.Unlock()

	_, err = m.Resolve(ctx, token)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSessionExpired))
}

func TestMemoryStoreMissAndDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCacheMiss))

	require.NoError(t, store.Save(ctx, "sid", "tok", time.Hour))
	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, store.Delete(ctx, "sid"))
	_, err = store.Get(ctx, "sid")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCacheMiss))
}
