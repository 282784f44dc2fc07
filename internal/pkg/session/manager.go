package session

import (
	"context"
	"net/http"
	"time"
)

// Manager ties the session store, token lifecycle, and the browser cookie
// together. Login and Logout both rotate the token so an old token can never
// be replayed against the new binding.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager creates a session manager.
func NewManager(store Store, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Store exposes the underlying store for collaborators that persist
// session mutations themselves (the CSRF guard).
func (m *Manager) Store() Store {
	return m.store
}

// Load resolves a cookie token to a live session, or nil.
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	return m.store.Get(ctx, token)
}

// Start creates and persists a new anonymous session.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Login binds a student identity to a fresh session and discards the old
// one. Returns the replacement session.
func (m *Manager) Login(ctx context.Context, old *Session, studentID int64) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Token:     token,
		StudentID: studentID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}

	if old != nil {
		if err := m.store.Delete(ctx, old.Token); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Logout clears the identity binding and rotates the token. The replacement
// session is anonymous.
func (m *Manager) Logout(ctx context.Context, old *Session) (*Session, error) {
	return m.Login(ctx, old, 0)
}

// SetCookie issues the session cookie to the client.
func (m *Manager) SetCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the client.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
