package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/news-crud-lab/internal/service"
	"github.com/news-crud-lab/internal/validation"
	"github.com/rs/zerolog"
)

const sessionKey = "session"

// SessionHandler handles session endpoints
type SessionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(services *service.Services, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		services: services,
		log:      log.With().Str("handler", "session").Logger(),
	}
}

// CreateSession handles POST /v1/sessions
// The session's news load starts immediately; poll /news for the result.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.services.Sessions.Create()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"created_at": session.CreatedAt,
		"store":      session.Store.Snapshot(),
		"news":       session.News.State(),
	})
}

// CloseSession handles DELETE /v1/sessions/:session_id
func (h *SessionHandler) CloseSession(c *gin.Context) {
	session := currentSession(c)
	if err := h.services.Sessions.Close(session.ID); err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		h.log.Error().Err(err).Str("session_id", session.ID).Msg("Failed to close session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// sessionMiddleware resolves :session_id into a live session
func sessionMiddleware(services *service.Services) gin.HandlerFunc {
	validator := validation.NewValidator()
	return func(c *gin.Context) {
		id := c.Param("session_id")
		if errs := validator.ValidateSessionID(id); len(errs) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errs[0].Message, "details": errs})
			return
		}

		session, err := services.Sessions.Get(id)
		if errors.Is(err, service.ErrSessionNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *service.Session {
	return c.MustGet(sessionKey).(*service.Session)
}
