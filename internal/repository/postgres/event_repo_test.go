package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventhorizon/internal/domain"
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	event := &domain.Event{
		ID:           "ev-1",
		Title:        "Go Conf",
		Description:  "A conference",
		Date:         "2026-09-01",
		Time:         "10:00",
		Category:     "tech",
		Interest:     "golang",
		CreatorEmail: "org@example.com",
		CreatorName:  "Org",
		CreatorRole:  domain.RoleOrganizer,
		Status:       domain.EventStatusPending,
		Venue:        domain.Venue{Name: "Hall A", URL: "https://hall-a.example", Address: "1 Main St"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success merges venue and inserts event in one tx",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO venues`).
					WithArgs("Hall A", "https://hall-a.example", "1 Main St").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("ev-1", "Go Conf", "A conference", "2026-09-01", "10:00", "tech", "golang",
						"org@example.com", "Org", "organizer", "Hall A", "PENDING", now, now).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "event insert failure rolls back",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO venues`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, event)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_UpdateStatusIf(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		mock     func(mock sqlmock.Sqlmock)
		wantDone bool
		wantErr  bool
	}{
		{
			name: "transition applies when status matches",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET status`).
					WithArgs("ev-1", "PENDING", "ACTIVE").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantDone: true,
		},
		{
			name: "no-op when another writer got there first",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET status`).
					WithArgs("ev-1", "PENDING", "ACTIVE").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantDone: false,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET status`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			done, err := repo.UpdateStatusIf(ctx, "ev-1", domain.EventStatusPending, domain.EventStatusActive)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantDone, done)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_CancelIfNoInvitations(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels when no invitations remain", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`NOT EXISTS \(SELECT 1 FROM event_invitations`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		cancelled, err := repo.CancelIfNoInvitations(ctx, "ev-1")
		require.NoError(t, err)
		require.True(t, cancelled)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("leaves event alone while invitations exist", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`NOT EXISTS \(SELECT 1 FROM event_invitations`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		cancelled, err := repo.CancelIfNoInvitations(ctx, "ev-1")
		require.NoError(t, err)
		require.False(t, cancelled)
	})
}

func TestEventRepository_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown event maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events SET status`).
			WithArgs("missing", "CANCELLED").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.SetStatus(ctx, "missing", domain.EventStatusCancelled), domain.ErrNotFound)
	})
}
