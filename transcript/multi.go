package transcript

import (
	"context"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

// MultiLog fans every operation out to all underlying logs. Every log is
// attempted even after a failure; the first error is returned.
type MultiLog struct {
	logs []Log
}

// NewMultiLog combines logs into one. Typically the CSV store plus the
// SQLite mirror.
func NewMultiLog(logs ...Log) *MultiLog {
	return &MultiLog{logs: logs}
}

func (m *MultiLog) EnsureInitialized() error {
	var first error
	for _, l := range m.logs {
		if err := l.EnsureInitialized(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiLog) Append(ctx context.Context, sessionID string, role domain.Role, content string) error {
	var first error
	for _, l := range m.logs {
		if err := l.Append(ctx, sessionID, role, content); err != nil && first == nil {
			first = err
		}
	}
	return first
}
