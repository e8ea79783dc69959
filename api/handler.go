// Package api provides the HTTP presentation surface for the chat engine.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/engine"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/transcript"
)

// Handler handles HTTP requests.
type Handler struct {
	engine *engine.Engine
	csv    *transcript.CSVLog
	mirror *transcript.SQLiteLog
}

// NewHandler creates a new handler. mirror may be nil; the session listing
// endpoints then answer 503.
func NewHandler(eng *engine.Engine, csv *transcript.CSVLog, mirror *transcript.SQLiteLog) *Handler {
	return &Handler{
		engine: eng,
		csv:    csv,
		mirror: mirror,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)
	e.GET("/v1/transcript", h.GetTranscript)
	e.POST("/v1/reset", h.Reset)

	e.GET("/v1/sessions", h.ListSessions)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.GET("/v1/logs/download", h.DownloadLogs)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
