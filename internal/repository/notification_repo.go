package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"intentguard/internal/models"

	"github.com/google/uuid"
)

type NotificationSQLite struct {
	db *sql.DB
}

func NewNotificationSQLite(db *sql.DB) *NotificationSQLite { return &NotificationSQLite{db: db} }

const (
	insertNotificationSQL = `
		INSERT INTO notifications (id, created_at, level, title, description, duration_ms, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectNotificationsSQL = `SELECT id, created_at, level, title, description, duration_ms, source FROM notifications`
)

// Append inserts a notification. Missing ID and CreatedAt are filled in.
func (r *NotificationSQLite) Append(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	var desc *string
	if n.Description != "" {
		desc = &n.Description
	}

	_, err := r.db.ExecContext(ctx, insertNotificationSQL,
		n.ID,
		n.CreatedAt.UTC(),
		strings.ToLower(strings.TrimSpace(string(n.Level))),
		n.Title,
		desc,
		n.DurationMs,
		n.Source,
	)
	if err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

// List returns notifications in [from, to] (inclusive) and/or of one level, oldest first.
func (r *NotificationSQLite) List(ctx context.Context, from, to time.Time, level string) ([]models.Notification, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, to.UTC())
	}
	if level = strings.ToLower(strings.TrimSpace(level)); level != "" {
		conds = append(conds, "level = ?")
		args = append(args, level)
	}

	q := selectNotificationsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0, 64)
	for rows.Next() {
		var (
			n     models.Notification
			level string
			desc  sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.CreatedAt, &level, &n.Title, &desc, &n.DurationMs, &n.Source); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Level = models.NotificationLevel(level)
		n.Description = desc.String
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
