package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/news-crud-lab/internal/events"
	"github.com/news-crud-lab/internal/metrics"
	"github.com/rs/zerolog"
)

// EventsHandler streams store changes over server-sent events
type EventsHandler struct {
	broker *events.Broker
	log    zerolog.Logger
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(broker *events.Broker, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		broker: broker,
		log:    log.With().Str("handler", "events").Logger(),
	}
}

// StreamEvents handles GET /v1/sessions/:session_id/events
func (h *EventsHandler) StreamEvents(c *gin.Context) {
	if h.broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream disabled"})
		return
	}

	session := currentSession(c)
	client := h.broker.Subscribe(session.ID)
	defer h.broker.Unsubscribe(client)

	metrics.EventStreamConnections.Inc()
	defer metrics.EventStreamConnections.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// Current state first so the client never renders from nothing
	c.SSEvent("snapshot", session.Store.Snapshot())
	c.Writer.Flush()

	h.log.Debug().Str("session_id", session.ID).Msg("Event stream opened")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	h.log.Debug().Str("session_id", session.ID).Msg("Event stream closed")
}
