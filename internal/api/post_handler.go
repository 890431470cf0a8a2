package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/news-crud-lab/internal/models"
	"github.com/news-crud-lab/internal/service"
	"github.com/rs/zerolog"
)

// PostHandler handles mock post and draft endpoints
type PostHandler struct {
	log zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(log zerolog.Logger) *PostHandler {
	return &PostHandler{
		log: log.With().Str("handler", "post").Logger(),
	}
}

// GetPosts handles GET /v1/sessions/:session_id/posts
func (h *PostHandler) GetPosts(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Store.Snapshot())
}

// BeginEdit handles POST /v1/sessions/:session_id/posts/:post_id/edit
func (h *PostHandler) BeginEdit(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	store := currentSession(c).Store
	if err := store.BeginEdit(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.log.Error().Err(err).Int64("post_id", int64(id)).Msg("Failed to begin edit")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to begin edit"})
		return
	}

	c.JSON(http.StatusOK, store.Snapshot())
}

// CancelEdit handles POST /v1/sessions/:session_id/draft/cancel
func (h *PostHandler) CancelEdit(c *gin.Context) {
	store := currentSession(c).Store
	store.CancelEdit()
	c.JSON(http.StatusOK, store.Snapshot())
}

// SetDraft handles PUT /v1/sessions/:session_id/draft
func (h *PostHandler) SetDraft(c *gin.Context) {
	var fields models.DraftFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	store := currentSession(c).Store
	store.SetDraft(fields)
	c.JSON(http.StatusOK, store.Snapshot())
}

// SubmitDraft handles POST /v1/sessions/:session_id/draft/submit
// With an empty body the current draft is submitted as is.
func (h *PostHandler) SubmitDraft(c *gin.Context) {
	var fields *models.DraftFields
	var body models.DraftFields
	if err := c.ShouldBindJSON(&body); err != nil {
		if !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	} else {
		fields = &body
	}

	store := currentSession(c).Store
	result, err := store.Submit(fields)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": verr.Errors})
			return
		}
		h.log.Error().Err(err).Msg("Failed to submit draft")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit draft"})
		return
	}

	status := http.StatusOK
	if result.Outcome == service.OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"outcome": result.Outcome,
		"post":    result.Post,
		"store":   store.Snapshot(),
	})
}

// DeletePost handles DELETE /v1/sessions/:session_id/posts/:post_id
// The caller confirms with ?confirm=true or an X-Confirm: true header.
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	store := currentSession(c).Store
	deleted, err := store.Delete(id, isConfirmed(c))
	if err != nil {
		if errors.Is(err, service.ErrConfirmationRequired) {
			c.JSON(http.StatusPreconditionRequired, gin.H{
				"error": "are you sure you want to delete this post? repeat with confirm=true",
			})
			return
		}
		h.log.Error().Err(err).Int64("post_id", int64(id)).Msg("Failed to delete post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
		"store":   store.Snapshot(),
	})
}

func parsePostID(c *gin.Context) (models.PostID, bool) {
	raw := c.Param("post_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id", "details": raw})
		return 0, false
	}
	return models.PostID(id), true
}

func isConfirmed(c *gin.Context) bool {
	if v := c.Query("confirm"); v != "" {
		confirmed, _ := strconv.ParseBool(v)
		return confirmed
	}
	confirmed, _ := strconv.ParseBool(c.GetHeader("X-Confirm"))
	return confirmed
}
