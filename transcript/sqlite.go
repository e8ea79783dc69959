package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

// SQLiteLog mirrors transcript entries into SQLite so the HTTP surface can
// list sessions and page through a session's records without parsing the
// CSV export.
type SQLiteLog struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteLog opens (and migrates) a SQLite-backed transcript mirror.
func NewSQLiteLog(dsn string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writes anyway; a single connection also keeps
	// :memory: databases coherent across calls.
	db.SetMaxOpenConns(1)

	l := &SQLiteLog{db: db, now: time.Now}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS transcript (
			entry_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transcript_session ON transcript(session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := l.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// EnsureInitialized re-runs the idempotent migrations.
func (l *SQLiteLog) EnsureInitialized() error {
	if err := l.migrate(); err != nil {
		return &domain.PersistenceError{Op: "init", Err: err}
	}
	return nil
}

// Append inserts one record with a freshly captured timestamp.
func (l *SQLiteLog) Append(ctx context.Context, sessionID string, role domain.Role, content string) error {
	entryID := "log_" + uuid.NewString()[:8]
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO transcript (entry_id, session_id, role, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		entryID, sessionID, string(role), content, l.now())
	if err != nil {
		return &domain.PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// Entries retrieves a session's records in write order. A non-empty before
// cursor returns records with entry_id lexically below it.
func (l *SQLiteLog) Entries(ctx context.Context, sessionID string, limit int, before string) ([]domain.LogEntry, error) {
	query := `SELECT entry_id, session_id, role, message, created_at FROM transcript WHERE session_id = ?`
	args := []interface{}{sessionID}

	if before != "" {
		query += ` AND entry_id < ?`
		args = append(args, before)
	}

	query += ` ORDER BY created_at ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		var role string
		if err := rows.Scan(&e.EntryID, &e.SessionID, &role, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Role = domain.Role(role)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListSessions summarizes every session present in the mirror, oldest first.
func (l *SQLiteLog) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
		 FROM transcript GROUP BY session_id ORDER BY MIN(created_at) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.SessionSummary
	for rows.Next() {
		var s domain.SessionSummary
		var first, last string
		if err := rows.Scan(&s.SessionID, &s.MessageCount, &first, &last); err != nil {
			return nil, err
		}
		// MIN/MAX results carry no declared column type, so the driver
		// hands back strings rather than time.Time.
		if s.FirstEntry, err = parseSQLiteTime(first); err != nil {
			return nil, err
		}
		if s.LastEntry, err = parseSQLiteTime(last); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseSQLiteTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range sqliteTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", s, lastErr)
}

// Close closes the database connection.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
