// Package controllers handles HTTP request handling
package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/middleware"
	"github.com/emre/coursehub/internal/pkg/csrf"
	"github.com/emre/coursehub/internal/pkg/session"
)

// baseViewData builds the fields every template needs: the auth state for
// the nav and the CSRF token for any form on the page. The token is
// generated lazily on first render.
func baseViewData(c *gin.Context, store session.Store) (gin.H, error) {
	sess := middleware.CurrentSession(c)

	token, err := csrf.Token(c.Request.Context(), store, sess)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"Authenticated": sess.IsAuthenticated(),
		"CSRFToken":     token,
	}, nil
}
