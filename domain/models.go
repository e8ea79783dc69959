// Package domain defines the core domain models for the chat engine.
package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single immutable message in a conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// LogEntry is one durable transcript record. EntryID is populated only by
// stores that assign record identifiers.
type LogEntry struct {
	EntryID   string    `json:"entry_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
}

// SessionSummary aggregates the log entries of one session.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	FirstEntry   time.Time `json:"first_entry"`
	LastEntry    time.Time `json:"last_entry"`
}

// CompletionConfig carries the caller-supplied dispatch parameters for a
// single completion request. It is passed by value and never cached.
type CompletionConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Default dispatch parameters, matching the support assistant's tuning.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

// DefaultConfig returns a CompletionConfig with the default model and
// sampling parameters. The API key must still be supplied by the caller.
func DefaultConfig() CompletionConfig {
	return CompletionConfig{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}
