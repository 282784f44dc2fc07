package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/coursehub/internal/pkg/session"
)

// HomeController serves the landing page.
type HomeController struct {
	sessions session.Store
	logger   zerolog.Logger
}

// NewHomeController creates a new HomeController
func NewHomeController(sessions session.Store, logger zerolog.Logger) *HomeController {
	return &HomeController{
		sessions: sessions,
		logger:   logger,
	}
}

// Index renders the home page.
func (ctrl *HomeController) Index(c *gin.Context) {
	data, err := baseViewData(c, ctrl.sessions)
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to build view data")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.HTML(http.StatusOK, "home.html", data)
}
