package csrf_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emre/coursehub/internal/pkg/csrf"
	"github.com/emre/coursehub/internal/pkg/session"
)

func newSession(t *testing.T, store session.Store) *session.Session {
	t.Helper()
	s := &session.Session{
		Token:     "sess-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), s))
	return s
}

func TestToken_StableAcrossRequests(t *testing.T) {
	store := session.NewMemoryStore()
	s := newSession(t, store)
	ctx := context.Background()

	first, err := csrf.Token(ctx, store, s)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(first), 43) // 32 bytes base64url

	second, err := csrf.Token(ctx, store, s)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// The token survives a fresh load from the store.
	reloaded, err := store.Get(ctx, s.Token)
	require.NoError(t, err)
	require.Equal(t, first, reloaded.CSRFToken)
}

func TestToken_NilSessionFails(t *testing.T) {
	store := session.NewMemoryStore()
	_, err := csrf.Token(context.Background(), store, nil)
	require.Error(t, err)
}

func TestVerify(t *testing.T) {
	store := session.NewMemoryStore()
	s := newSession(t, store)

	token, err := csrf.Token(context.Background(), store, s)
	require.NoError(t, err)

	t.Run("matching token passes", func(t *testing.T) {
		require.True(t, csrf.Verify(s, token))
	})

	t.Run("wrong token fails", func(t *testing.T) {
		require.False(t, csrf.Verify(s, "not-the-token"))
	})

	t.Run("empty supplied token fails", func(t *testing.T) {
		require.False(t, csrf.Verify(s, ""))
	})

	t.Run("nil session fails", func(t *testing.T) {
		require.False(t, csrf.Verify(nil, token))
	})

	t.Run("session without token fails", func(t *testing.T) {
		bare := &session.Session{Token: "x", ExpiresAt: time.Now().Add(time.Hour)}
		require.False(t, csrf.Verify(bare, token))
	})
}
