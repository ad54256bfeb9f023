package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"intentguard/internal/models"
)

type CommandSQLite struct {
	db *sql.DB
}

func NewCommandSQLite(db *sql.DB) *CommandSQLite {
	return &CommandSQLite{db: db}
}

const (
	defaultCommandLimit = 50
	maxCommandLimit     = 500

	insertCommandSQL = `
		INSERT INTO command_log (id, issued_at, kind, target, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectRecentCommandsSQL = `
		SELECT id, issued_at, kind, target, outcome, detail
		FROM command_log ORDER BY issued_at DESC LIMIT ?
	`
)

// clampLimit keeps audit queries bounded.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultCommandLimit
	case limit > maxCommandLimit:
		return maxCommandLimit
	default:
		return limit
	}
}

// Record appends one command outcome. IssuedAt is stored in UTC; zero means now.
func (r *CommandSQLite) Record(ctx context.Context, rec models.CommandRecord) error {
	ts := rec.IssuedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertCommandSQL,
		rec.ID,
		ts,
		string(rec.Kind),
		rec.Target,
		string(rec.Outcome),
		rec.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert command %s: %w", rec.Kind, err)
	}
	return nil
}

// Recent returns up to limit commands, newest first.
func (r *CommandSQLite) Recent(ctx context.Context, limit int) ([]models.CommandRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentCommandsSQL, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	out := make([]models.CommandRecord, 0, 16)
	for rows.Next() {
		var (
			rec           models.CommandRecord
			kind, outcome string
		)
		if err := rows.Scan(&rec.ID, &rec.IssuedAt, &kind, &rec.Target, &outcome, &rec.Detail); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		rec.Kind = models.CommandKind(kind)
		rec.Outcome = models.CommandOutcome(outcome)
		rec.IssuedAt = rec.IssuedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
