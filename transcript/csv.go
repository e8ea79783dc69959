package transcript

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

// CSVLog is the canonical transcript store: a four-column CSV file with a
// fixed header row, suitable for bulk download. Appends are mutex-guarded
// and flushed to disk before returning, so a record is either fully present
// or absent after an abrupt termination.
type CSVLog struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewCSVLog creates a CSV log backed by the file at path. The file is not
// touched until EnsureInitialized or Append is called.
func NewCSVLog(path string) *CSVLog {
	return &CSVLog{path: path, now: time.Now}
}

// Path returns the backing file path.
func (l *CSVLog) Path() string {
	return l.path
}

// EnsureInitialized creates the backing file with the header row if it does
// not exist. Existing files are left untouched.
func (l *CSVLog) EnsureInitialized() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &domain.PersistenceError{Op: "init", Err: err}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			// Lost the race to another process; the winner wrote the header.
			return nil
		}
		return &domain.PersistenceError{Op: "init", Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return &domain.PersistenceError{Op: "init", Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &domain.PersistenceError{Op: "init", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &domain.PersistenceError{Op: "init", Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.PersistenceError{Op: "init", Err: err}
	}
	return nil
}

// Append writes one record. csv quoting keeps embedded delimiters and
// newlines in content from corrupting row boundaries.
func (l *CSVLog) Append(_ context.Context, sessionID string, role domain.Role, content string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &domain.PersistenceError{Op: "append", Err: err}
	}

	record := []string{
		l.now().Format(time.RFC3339Nano),
		sessionID,
		string(role),
		content,
	}

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		f.Close()
		return &domain.PersistenceError{Op: "append", Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &domain.PersistenceError{Op: "append", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &domain.PersistenceError{Op: "append", Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// ReadAll parses the backing file back into entries, skipping the header.
func (l *CSVLog) ReadAll() ([]domain.LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	var entries []domain.LogEntry
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.PersistenceError{Op: "read", Err: err}
		}
		if first {
			first = false
			continue
		}

		ts, err := time.Parse(time.RFC3339Nano, record[0])
		if err != nil {
			return nil, &domain.PersistenceError{Op: "read", Err: fmt.Errorf("bad timestamp %q: %w", record[0], err)}
		}
		entries = append(entries, domain.LogEntry{
			Timestamp: ts,
			SessionID: record[1],
			Role:      domain.Role(record[2]),
			Message:   record[3],
		})
	}
	return entries, nil
}
