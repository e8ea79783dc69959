package session

import (
	"strings"
	"testing"
	"time"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

func TestNewDerivesTimePrefixedID(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	s := NewWithClock(func() time.Time { return fixed })

	id := s.ID()
	if !strings.HasPrefix(id, "20240315_103045_") {
		t.Fatalf("unexpected id prefix: %s", id)
	}
	if len(id) != len("20240315_103045_")+8 {
		t.Fatalf("unexpected id length: %s", id)
	}
}

func TestNewSameSecondIDsDiffer(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	clock := func() time.Time { return fixed }

	a := NewWithClock(clock)
	b := NewWithClock(clock)
	if a.ID() == b.ID() {
		t.Fatalf("sessions created in the same second collided: %s", a.ID())
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := New()
	s.Append(domain.RoleUser, "first")
	s.Append(domain.RoleAssistant, "second")
	s.Append(domain.RoleUser, "third")

	history := s.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	want := []string{"first", "second", "third"}
	for i, msg := range history {
		if msg.Content != want[i] {
			t.Fatalf("message %d: expected %q, got %q", i, want[i], msg.Content)
		}
	}
}

func TestAppendTimestampsMonotonic(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	clock := func() time.Time { return ts }
	s := NewWithClock(clock)

	s.Append(domain.RoleUser, "a")
	ts = ts.Add(-time.Second) // clock steps backwards
	s.Append(domain.RoleAssistant, "b")

	history := s.History()
	if history[1].CreatedAt.Before(history[0].CreatedAt) {
		t.Fatalf("timestamps not monotonic: %v then %v", history[0].CreatedAt, history[1].CreatedAt)
	}
}

func TestHistoryIsDefensiveCopy(t *testing.T) {
	s := New()
	s.Append(domain.RoleUser, "original")

	history := s.History()
	history[0].Content = "mutated"

	if got := s.History()[0].Content; got != "original" {
		t.Fatalf("session mutated through History copy: %q", got)
	}
}

func TestResetYieldsNewIDAndEmptyHistory(t *testing.T) {
	s := New()
	oldID := s.ID()
	s.Append(domain.RoleUser, "hello")
	s.Append(domain.RoleAssistant, "hi")

	newID := s.Reset()
	if newID == oldID {
		t.Fatalf("reset did not derive a new id")
	}
	if s.ID() != newID {
		t.Fatalf("ID() = %s, want %s", s.ID(), newID)
	}
	if len(s.History()) != 0 {
		t.Fatalf("expected empty history after reset, got %d messages", len(s.History()))
	}
}
