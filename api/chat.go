package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

// ChatRequest is the body of POST /v1/chat. The credential and sampling
// parameters arrive with every call and are never cached server-side.
type ChatRequest struct {
	Message     string   `json:"message"`
	APIKey      string   `json:"api_key,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// ChatResponse is the body of a successful POST /v1/chat.
type ChatResponse struct {
	SessionID   string `json:"session_id"`
	Reply       string `json:"reply"`
	FailureKind string `json:"failure_kind,omitempty"`
}

// Chat submits one turn.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = bearerToken(c)
	}

	cfg := domain.DefaultConfig()
	cfg.APIKey = apiKey
	if req.Model != "" {
		cfg.Model = req.Model
	}
	if req.Temperature != nil {
		cfg.Temperature = *req.Temperature
	}
	if req.MaxTokens > 0 {
		cfg.MaxTokens = req.MaxTokens
	}

	result, err := h.engine.SubmitTurn(ctx, req.Message, cfg)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "api key is required"})
		}
		log.Printf("ERROR: failed to submit turn: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to submit turn"})
	}

	resp := ChatResponse{
		SessionID: result.SessionID,
		Reply:     result.Reply,
	}
	if result.Failure != nil {
		resp.FailureKind = string(result.Failure.Kind)
	}
	return c.JSON(http.StatusOK, resp)
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
