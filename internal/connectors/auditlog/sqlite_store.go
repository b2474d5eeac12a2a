// Package auditlog records administrator actions (logins, edits,
// deletions) in a local SQLite file. The survey data itself lives in
// the backend; this store only keeps the who-did-what trail.
package auditlog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one recorded administrator action.
type Event struct {
	ID         int64  `json:"id"`
	OccurredAt string `json:"occurred_at"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	RecordID   string `json:"record_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Actions recorded by the HTTP layer.
const (
	ActionLogin  = "login"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Store manages the audit trail in SQLite.
type Store struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS admin_audit_events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  actor TEXT NOT NULL,
  action TEXT NOT NULL,
  record_id TEXT NOT NULL DEFAULT '',
  detail TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_aae_occurred_at ON admin_audit_events(occurred_at);`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one event. Audit failures are reported but must never
// block the admin action that triggered them; callers log and move on.
func (s *Store) Record(ctx context.Context, actor, action, recordID, detail string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO admin_audit_events (actor, action, record_id, detail)
VALUES (?, ?, ?, ?);
`, strings.TrimSpace(actor), strings.TrimSpace(action), strings.TrimSpace(recordID), strings.TrimSpace(detail))
	return err
}

// ListRecent returns the newest events first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, occurred_at, actor, action, record_id, detail
FROM admin_audit_events
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0, limit)
	for rows.Next() {
		var (
			item       Event
			occurredAt sql.NullTime
		)
		if err := rows.Scan(&item.ID, &occurredAt, &item.Actor, &item.Action, &item.RecordID, &item.Detail); err != nil {
			return nil, err
		}
		if occurredAt.Valid {
			item.OccurredAt = occurredAt.Time.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
