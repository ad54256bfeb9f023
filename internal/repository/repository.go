package repository

import (
	"context"
	"database/sql"
	"time"

	"intentguard/internal/models"
)

type Operators interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

// Notifications is the append-only operator notification log.
type Notifications interface {
	Append(ctx context.Context, n models.Notification) error
	List(ctx context.Context, from, to time.Time, level string) ([]models.Notification, error)
}

// Commands is the actuation audit log.
type Commands interface {
	Record(ctx context.Context, rec models.CommandRecord) error
	Recent(ctx context.Context, limit int) ([]models.CommandRecord, error)
}

type Repository struct {
	Notifications Notifications
	Commands      Commands
	Operators     Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Notifications: NewNotificationSQLite(db),
		Commands:      NewCommandSQLite(db),
		Operators:     NewOperatorRepository(db),
	}
}
