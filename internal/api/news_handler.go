package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewsHandler handles news endpoints
type NewsHandler struct {
	log zerolog.Logger
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(log zerolog.Logger) *NewsHandler {
	return &NewsHandler{
		log: log.With().Str("handler", "news").Logger(),
	}
}

// GetNews handles GET /v1/sessions/:session_id/news
// A failed load is still a 200: the tri-state body carries the error.
func (h *NewsHandler) GetNews(c *gin.Context) {
	session := currentSession(c)
	c.JSON(http.StatusOK, session.News.State())
}
