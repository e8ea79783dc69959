// Package transcript provides the durable, append-only record of every
// conversation turn across all sessions.
package transcript

import (
	"context"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

// Header is the fixed column header of the exported transcript.
var Header = []string{"timestamp", "session_id", "role", "message"}

// Log is an append-only store of transcript entries.
type Log interface {
	// EnsureInitialized prepares the backing store. Idempotent; safe to
	// call on every process start.
	EnsureInitialized() error

	// Append durably writes exactly one record with a freshly captured
	// timestamp. Concurrent calls must not interleave partial records.
	Append(ctx context.Context, sessionID string, role domain.Role, content string) error
}
