package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"intentguard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestNotificationAppend_FillsDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewNotificationSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(insertNotificationSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "error", "High Risk Detected: Trespass", "Stop train", 5000, "classifier").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.Notification{
		Level:       " ERROR ",
		Title:       "High Risk Detected: Trespass",
		Description: "Stop train",
		DurationMs:  5000,
		Source:      "classifier",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNotificationAppend_EmptyDescriptionIsNull(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewNotificationSQLite(db)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(insertNotificationSQL)).
		WithArgs("n-1", at, "success", "System Normal", nil, 0, "classifier").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.Notification{
		ID:        "n-1",
		Level:     models.NotifySuccess,
		Title:     "System Normal",
		Source:    "classifier",
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNotificationAppend_ExecError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(insertNotificationSQL)).
		WillReturnError(errors.New("database is locked"))

	err = NewNotificationSQLite(db).Append(ctx(t), models.Notification{ID: "n-2", Level: models.NotifyInfo, Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "insert notification n-2") {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
}

func TestNotificationList(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	cols := []string{"id", "created_at", "level", "title", "description", "duration_ms", "source"}

	tests := []struct {
		name      string
		from, to  time.Time
		level     string
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "no filter",
			wantQuery: selectNotificationsSQL + " ORDER BY created_at ASC",
		},
		{
			name:      "range only",
			from:      from,
			to:        to,
			wantQuery: selectNotificationsSQL + " WHERE created_at >= ? AND created_at <= ? ORDER BY created_at ASC",
			wantArgs:  []driver.Value{from, to},
		},
		{
			name:      "level only",
			level:     " Warning ",
			wantQuery: selectNotificationsSQL + " WHERE level = ? ORDER BY created_at ASC",
			wantArgs:  []driver.Value{"warning"},
		},
		{
			name:      "all filters",
			from:      from,
			to:        to,
			level:     "error",
			wantQuery: selectNotificationsSQL + " WHERE created_at >= ? AND created_at <= ? AND level = ? ORDER BY created_at ASC",
			wantArgs:  []driver.Value{from, to, "error"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock new: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta(tc.wantQuery)).
				WithArgs(tc.wantArgs...).
				WillReturnRows(sqlmock.NewRows(cols).
					AddRow("n-1", from.Add(time.Hour), "warning", "Monitoring: Loitering", "Watch", 0, "classifier").
					AddRow("n-2", from.Add(2*time.Hour), "error", "Failed to halt train", nil, 0, "dispatcher"))

			got, err := NewNotificationSQLite(db).List(ctx(t), tc.from, tc.to, tc.level)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("len = %d, want 2", len(got))
			}
			if got[0].Level != models.NotifyWarning || got[0].Description != "Watch" {
				t.Fatalf("first row: %+v", got[0])
			}
			if got[1].Description != "" || got[1].Source != "dispatcher" {
				t.Fatalf("second row: %+v", got[1])
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations: %v", err)
			}
		})
	}
}

func TestNotificationList_QueryError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectNotificationsSQL)).
		WillReturnError(errors.New("boom"))

	if _, err := NewNotificationSQLite(db).List(ctx(t), time.Time{}, time.Time{}, ""); err == nil || !strings.Contains(err.Error(), "query notifications") {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}
