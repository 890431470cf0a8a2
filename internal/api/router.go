package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/news-crud-lab/internal/config"
	"github.com/news-crud-lab/internal/events"
	"github.com/news-crud-lab/internal/metrics"
	"github.com/news-crud-lab/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const serviceName = "news-crud-lab"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, broker *events.Broker, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(prometheusMiddleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Confirm", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	// Handlers
	sessionHandler := NewSessionHandler(services, log)
	postHandler := NewPostHandler(log)
	newsHandler := NewNewsHandler(log)
	eventsHandler := NewEventsHandler(broker, log)

	// Health check
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := router.Group("/v1")
	{
		v1.POST("/sessions", sessionHandler.CreateSession)

		session := v1.Group("/sessions/:session_id", sessionMiddleware(services))
		{
			session.DELETE("", sessionHandler.CloseSession)

			// News endpoints
			session.GET("/news", newsHandler.GetNews)

			// Mock post endpoints
			session.GET("/posts", postHandler.GetPosts)
			session.POST("/posts/:post_id/edit", postHandler.BeginEdit)
			session.DELETE("/posts/:post_id", postHandler.DeletePost)

			// Draft endpoints
			session.PUT("/draft", postHandler.SetDraft)
			session.POST("/draft/submit", postHandler.SubmitDraft)
			session.POST("/draft/cancel", postHandler.CancelEdit)

			// Store change stream
			session.GET("/events", eventsHandler.StreamEvents)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
			"sessions":  services.Sessions.Count(),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware tags every request with an id, reusing the caller's if given
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}

// prometheusMiddleware records request counts and latency per route
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HttpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			serviceName,
		).Inc()
		metrics.HttpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			serviceName,
		).Observe(time.Since(start).Seconds())
	}
}
