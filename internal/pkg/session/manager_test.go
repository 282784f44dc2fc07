package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emre/coursehub/internal/pkg/session"
)

func newManager(store session.Store) *session.Manager {
	return session.NewManager(store, "test_session", time.Hour, false)
}

func TestManager_StartAndLoad(t *testing.T) {
	store := session.NewMemoryStore()
	m := newManager(store)
	ctx := context.Background()

	sess, err := m.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.False(t, sess.IsAuthenticated())

	loaded, err := m.Load(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, sess.Token, loaded.Token)

	t.Run("empty token loads nothing", func(t *testing.T) {
		loaded, err := m.Load(ctx, "")
		require.NoError(t, err)
		require.Nil(t, loaded)
	})

	t.Run("unknown token loads nothing", func(t *testing.T) {
		loaded, err := m.Load(ctx, "does-not-exist")
		require.NoError(t, err)
		require.Nil(t, loaded)
	})
}

func TestManager_LoginRotatesToken(t *testing.T) {
	store := session.NewMemoryStore()
	m := newManager(store)
	ctx := context.Background()

	anon, err := m.Start(ctx)
	require.NoError(t, err)

	authed, err := m.Login(ctx, anon, 42)
	require.NoError(t, err)
	require.NotEqual(t, anon.Token, authed.Token)
	require.EqualValues(t, 42, authed.StudentID)
	require.True(t, authed.IsAuthenticated())

	// The old token must be dead.
	loaded, err := m.Load(ctx, anon.Token)
	require.NoError(t, err)
	require.Nil(t, loaded)

	loaded, err = m.Load(ctx, authed.Token)
	require.NoError(t, err)
	require.EqualValues(t, 42, loaded.StudentID)
}

func TestManager_LogoutClearsIdentityAndRotates(t *testing.T) {
	store := session.NewMemoryStore()
	m := newManager(store)
	ctx := context.Background()

	anon, err := m.Start(ctx)
	require.NoError(t, err)
	authed, err := m.Login(ctx, anon, 7)
	require.NoError(t, err)

	fresh, err := m.Logout(ctx, authed)
	require.NoError(t, err)
	require.NotEqual(t, authed.Token, fresh.Token)
	require.False(t, fresh.IsAuthenticated())

	// Replaying the authenticated token must fail.
	loaded, err := m.Load(ctx, authed.Token)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestNewToken_UniqueAndOpaque(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := session.NewToken()
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(token), 43) // 32 bytes base64url
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}
