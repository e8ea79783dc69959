// Package session holds one conversation's ordered message buffer and
// identity.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

// Session is a mutable conversation aggregate. It is safe for concurrent
// use, though callers normally serialize turns through the engine.
type Session struct {
	mu       sync.Mutex
	id       string
	messages []domain.Message
	now      func() time.Time
}

// New creates an empty session with a freshly derived identifier.
func New() *Session {
	return NewWithClock(time.Now)
}

// NewWithClock creates a session using the given clock. Used by tests.
func NewWithClock(now func() time.Time) *Session {
	return &Session{
		id:  newID(now()),
		now: now,
	}
}

// newID derives a session identifier from the creation instant. The uuid
// suffix keeps two sessions created within the same second distinct.
func newID(t time.Time) string {
	return t.Format("20060102_150405") + "_" + uuid.NewString()[:8]
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Append adds a message to the end of the sequence and returns it.
// Timestamps are monotonically non-decreasing within the session.
func (s *Session) Append(role domain.Role, content string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if n := len(s.messages); n > 0 && ts.Before(s.messages[n-1].CreatedAt) {
		ts = s.messages[n-1].CreatedAt
	}

	msg := domain.Message{Role: role, Content: content, CreatedAt: ts}
	s.messages = append(s.messages, msg)
	return msg
}

// History returns the ordered message sequence as a defensive copy. The
// session remains the source of truth; mutating the returned slice has no
// effect on it.
func (s *Session) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]domain.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len returns the number of messages in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Reset discards the buffer and derives a new identifier, returning it. The
// old session's messages remain only in the transcript log.
func (s *Session) Reset() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = newID(s.now())
	s.messages = nil
	return s.id
}
