// Package session implements server-side sessions keyed by an opaque token
// carried in a browser cookie. A session holds at most the authenticated
// student's id plus the per-session CSRF token.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// tokenBytes is the entropy of a session token. 32 bytes = 256 bits.
const tokenBytes = 32

// Session represents one browser session.
type Session struct {
	Token     string    `json:"token"`
	StudentID int64     `json:"student_id"` // 0 means anonymous
	CSRFToken string    `json:"csrf_token"` // set lazily on first form render
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether the session is bound to a student.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.StudentID > 0
}

// NewToken generates a cryptographically secure opaque token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
