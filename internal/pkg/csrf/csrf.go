// Package csrf issues and verifies the per-session anti-forgery token
// carried by every state-mutating form.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/emre/coursehub/internal/pkg/session"
)

// tokenBytes is the entropy of a CSRF token. 32 bytes = 256 bits.
const tokenBytes = 32

// FieldName is the hidden form field carrying the token.
const FieldName = "_csrf"

// Token returns the session's CSRF token, generating and persisting one on
// first use. The token is stable until the session token rotates.
func Token(ctx context.Context, store session.Store, s *session.Session) (string, error) {
	if s == nil {
		return "", fmt.Errorf("csrf: no session")
	}
	if s.CSRFToken != "" {
		return s.CSRFToken, nil
	}

	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf: failed to generate token: %w", err)
	}

	s.CSRFToken = base64.RawURLEncoding.EncodeToString(b)
	if err := store.Save(ctx, s); err != nil {
		return "", fmt.Errorf("csrf: failed to persist token: %w", err)
	}
	return s.CSRFToken, nil
}

// Verify compares a supplied token against the session's token in constant
// time. Absence of either side fails.
func Verify(s *session.Session, supplied string) bool {
	if s == nil || s.CSRFToken == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(supplied)) == 1
}
