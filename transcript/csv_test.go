package transcript

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

func newTestCSVLog(t *testing.T) *CSVLog {
	t.Helper()

	l := NewCSVLog(filepath.Join(t.TempDir(), "chat_logs.csv"))
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized failed: %v", err)
	}
	return l
}

func TestCSVLogEnsureInitializedWritesHeader(t *testing.T) {
	l := newTestCSVLog(t)

	f, err := os.Open(l.Path())
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
	for i, col := range Header {
		if records[0][i] != col {
			t.Fatalf("header column %d: expected %q, got %q", i, col, records[0][i])
		}
	}
}

func TestCSVLogEnsureInitializedIdempotent(t *testing.T) {
	l := newTestCSVLog(t)
	if err := l.Append(context.Background(), "s1", domain.RoleUser, "hello"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("second EnsureInitialized failed: %v", err)
	}

	entries, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("re-initialization clobbered records: got %d", len(entries))
	}
}

func TestCSVLogAppendRoundTrip(t *testing.T) {
	l := newTestCSVLog(t)

	message := "line one\nline two, with a comma and a \"quote\""
	if err := l.Append(context.Background(), "s1", domain.RoleUser, message); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.SessionID != "s1" || e.Role != domain.RoleUser || e.Message != message {
		t.Fatalf("round trip mismatch: %+v", e)
	}
	if e.Timestamp.IsZero() {
		t.Fatalf("timestamp not captured")
	}
}

func TestCSVLogAppendAddsExactlyOneRecord(t *testing.T) {
	l := newTestCSVLog(t)

	for i := 1; i <= 5; i++ {
		if err := l.Append(context.Background(), "s1", domain.RoleAssistant, "reply"); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
		entries, err := l.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if len(entries) != i {
			t.Fatalf("after %d appends expected %d entries, got %d", i, i, len(entries))
		}
	}
}

func TestCSVLogConcurrentAppends(t *testing.T) {
	l := newTestCSVLog(t)

	const writers = 8
	const perWriter = 20

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if err := l.Append(context.Background(), "session", domain.RoleUser, "payload with, comma\nand newline"); err != nil {
					t.Errorf("writer %d: %v", id, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	entries, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != writers*perWriter {
		t.Fatalf("expected %d entries, got %d", writers*perWriter, len(entries))
	}
	for _, e := range entries {
		if e.Message != "payload with, comma\nand newline" {
			t.Fatalf("interleaved record: %+v", e)
		}
	}
}

func TestCSVLogAppendUnwritablePath(t *testing.T) {
	l := NewCSVLog(filepath.Join(t.TempDir(), "missing-dir", "chat_logs.csv"))

	err := l.Append(context.Background(), "s1", domain.RoleUser, "hello")
	if err == nil {
		t.Fatalf("expected error for unwritable path")
	}
	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %T: %v", err, err)
	}
}
