// Package store provides local persistence. The activity journal
// records every successful mutation the client performed, so `history`
// can answer what happened without asking the service.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"investctl/internal/errors"
)

// EntryKind names what a journal entry records.
type EntryKind string

const (
	EntryLogin            EntryKind = "login"
	EntryLogout           EntryKind = "logout"
	EntryRegister         EntryKind = "register"
	EntrySignalsGenerated EntryKind = "signals_generated"
	EntryAlertRead        EntryKind = "alert_read"
	EntryConfigSaved      EntryKind = "config_saved"
	EntryConfigDeleted    EntryKind = "config_deleted"
	EntryRiskSaved        EntryKind = "risk_saved"
)

// Entry is one recorded client action.
type Entry struct {
	ID        string
	Kind      EntryKind
	Detail    string
	CreatedAt time.Time
}

// Journal is a local append-only activity log backed by SQLite.
type Journal struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// OpenJournal opens (and if needed creates) the journal database.
func OpenJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activity (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity(created_at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends one entry. The ID and timestamp are assigned here.
func (j *Journal) Record(ctx context.Context, kind EntryKind, detail string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return errors.NewJournalError("record", errors.ErrJournalClosed)
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO activity (id, kind, detail, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), string(kind), detail, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewJournalError("record", err)
	}
	return nil
}

// Recent returns the newest entries, newest first. limit <= 0 returns
// everything.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, errors.NewJournalError("recent", errors.ErrJournalClosed)
	}

	query := `SELECT id, kind, detail, created_at FROM activity ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewJournalError("recent", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Detail, &e.CreatedAt); err != nil {
			return nil, errors.NewJournalError("recent", err)
		}
		e.Kind = EntryKind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewJournalError("recent", err)
	}
	return entries, nil
}

// Close closes the underlying database. Further calls fail with
// ErrJournalClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
