package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/coursehub/internal/pkg/csrf"
	"github.com/emre/coursehub/internal/pkg/session"
)

// sessionContextKey is the gin context key holding the resolved session.
const sessionContextKey = "session"

// SessionMiddleware resolves the session cookie and gates protected and
// state-mutating routes.
type SessionMiddleware struct {
	manager *session.Manager
	logger  zerolog.Logger
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(manager *session.Manager, logger zerolog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		manager: manager,
		logger:  logger,
	}
}

// Load resolves the cookie to a session, starting an anonymous one when the
// cookie is missing or stale, and stores it in the request context.
func (m *SessionMiddleware) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(m.manager.CookieName()); err == nil {
			token = cookie.Value
		}

		sess, err := m.manager.Load(c.Request.Context(), token)
		if err != nil {
			m.logger.Error().Err(err).Msg("Failed to load session")
			c.String(http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		if sess == nil {
			sess, err = m.manager.Start(c.Request.Context())
			if err != nil {
				m.logger.Error().Err(err).Msg("Failed to start session")
				c.String(http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
			m.manager.SetCookie(c.Writer, sess)
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireStudent redirects anonymous requests to the login page.
func (m *SessionMiddleware) RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if !sess.IsAuthenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// VerifyCSRF rejects a state-mutating request whose _csrf field does not
// match the session token. Runs before any handler touches the stores.
func (m *SessionMiddleware) VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		supplied := c.PostForm(csrf.FieldName)
		if !csrf.Verify(sess, supplied) {
			m.logger.Warn().
				Str("path", c.Request.URL.Path).
				Msg("CSRF token mismatch")
			c.String(http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session resolved by Load, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// ReplaceSession swaps the session stored in the request context after a
// token rotation.
func ReplaceSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionContextKey, sess)
}
