package session

import (
	"context"
	"time"
)

// Store defines how sessions are persisted. Sessions live outside the
// process so any worker can resolve any token.
type Store interface {
	// Save creates or replaces the session under its token.
	Save(ctx context.Context, s *Session) error
	// Get returns the session for a token, or nil when absent or expired.
	Get(ctx context.Context, token string) (*Session, error)
	// Delete removes a session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}

func ttlOf(s *Session) time.Duration {
	return time.Until(s.ExpiresAt)
}
