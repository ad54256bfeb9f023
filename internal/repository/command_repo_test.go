package repository

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"intentguard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCommandRecord(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("UTC+3", 3*3600))

	tests := []struct {
		name    string
		rec     models.CommandRecord
		expect  func(sqlmock.Sqlmock)
		wantErr string
	}{
		{
			name: "halt succeeded",
			rec: models.CommandRecord{
				ID: "c-1", Kind: models.CommandHaltTrain, Target: "T-101",
				Outcome: models.CommandSucceeded, IssuedAt: issued,
			},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertCommandSQL)).
					WithArgs("c-1", issued.UTC(), "halt_train", "T-101", "succeeded", "").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "zero time is stamped",
			rec: models.CommandRecord{
				ID: "c-2", Kind: models.CommandDispatchDrone, Target: "KM 12.4",
				Outcome: models.CommandFailed, Detail: "backend: dispatch drone: 503",
			},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertCommandSQL)).
					WithArgs("c-2", sqlmock.AnyArg(), "dispatch_drone", "KM 12.4", "failed", "backend: dispatch drone: 503").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "exec error",
			rec:  models.CommandRecord{ID: "c-3", Kind: models.CommandHaltTrain, Target: "T-9"},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertCommandSQL)).
					WillReturnError(errors.New("readonly database"))
			},
			wantErr: "insert command halt_train",
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

			tc.expect(mock)

			err = NewCommandSQLite(db).Record(ctx(t), tc.rec)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Record: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations: %v", err)
			}
		})
	}
}

func TestCommandRecent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, defaultCommandLimit},
		{"explicit", 5, 5},
		{"clamped", 10_000, maxCommandLimit},
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

			now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
			mock.ExpectQuery(regexp.QuoteMeta(selectRecentCommandsSQL)).
				WithArgs(tc.wantLimit).
				WillReturnRows(sqlmock.NewRows([]string{"id", "issued_at", "kind", "target", "outcome", "detail"}).
					AddRow("c-2", now, "dispatch_drone", "KM 3", "succeeded", "").
					AddRow("c-1", now.Add(-time.Minute), "halt_train", "T-1", "failed", "timeout"))

			got, err := NewCommandSQLite(db).Recent(ctx(t), tc.limit)
			if err != nil {
				t.Fatalf("Recent: %v", err)
			}
			if len(got) != 2 || got[0].ID != "c-2" || got[1].Kind != models.CommandHaltTrain || got[1].Outcome != models.CommandFailed {
				t.Fatalf("unexpected rows: %+v", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations: %v", err)
			}
		})
	}
}

func TestCommandRecent_QueryError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectRecentCommandsSQL)).
		WillReturnError(errors.New("boom"))

	if _, err := NewCommandSQLite(db).Recent(ctx(t), 3); err == nil || !strings.Contains(err.Error(), "query commands") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
