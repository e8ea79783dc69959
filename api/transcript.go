package api

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetTranscript returns the current session's ordered message sequence.
// GET /v1/transcript
func (h *Handler) GetTranscript(c echo.Context) error {
	messages := h.engine.CurrentTranscript()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": h.engine.SessionID(),
		"messages":   messages,
	})
}

// Reset discards the current session and starts a fresh one.
// POST /v1/reset
func (h *Handler) Reset(c echo.Context) error {
	newID := h.engine.ResetSession()
	return c.JSON(http.StatusOK, map[string]string{
		"session_id": newID,
	})
}

// ListSessions summarizes every session in the transcript mirror.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	if h.mirror == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session index unavailable"})
	}

	sessions, err := h.mirror.ListSessions(c.Request().Context())
	if err != nil {
		log.Printf("ERROR: failed to list sessions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// GetSessionMessages returns logged entries for a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	if h.mirror == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session index unavailable"})
	}

	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}
	before := c.QueryParam("before")

	entries, err := h.mirror.Entries(ctx, sessionID, limit+1, before)
	if err != nil {
		log.Printf("ERROR: failed to get entries: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get entries"})
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": entries,
		"has_more": hasMore,
	})
}

// DownloadLogs serves the CSV transcript export for bulk download.
// GET /v1/logs/download
func (h *Handler) DownloadLogs(c echo.Context) error {
	if _, err := os.Stat(h.csv.Path()); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no chat logs recorded yet"})
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	return c.Attachment(h.csv.Path(), "chat_logs.csv")
}
