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

func invitationRow(inv *domain.EventInvitation) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "speaker_email", "status", "is_read", "created_at", "updated_at"}).
		AddRow(inv.ID, inv.EventID, inv.SpeakerEmail, string(inv.Status), inv.IsRead, inv.CreatedAt, inv.UpdatedAt)
}

func TestEventInvitationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	inv := &domain.EventInvitation{
		ID:           "inv-1",
		EventID:      "ev-1",
		SpeakerEmail: "spk@example.com",
		Status:       domain.InvitationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO event_invitations`).
					WithArgs("inv-1", "ev-1", "spk@example.com", "PENDING", false, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("inv-1"))
			},
		},
		{
			name: "conflict returns ErrAlreadyInvited",
			mock: func(mock sqlmock.Sqlmock) {
				// ON CONFLICT DO NOTHING yields no row for an existing pair.
				mock.ExpectQuery(`INSERT INTO event_invitations`).
					WithArgs("inv-1", "ev-1", "spk@example.com", "PENDING", false, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantErr: domain.ErrAlreadyInvited,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO event_invitations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventInvitationRepository(db)
			err = repo.Create(ctx, inv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventInvitationRepository_AcceptIfPending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending row is accepted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		accepted := &domain.EventInvitation{
			ID: "inv-1", EventID: "ev-1", SpeakerEmail: "spk@example.com",
			Status: domain.InvitationAccepted, IsRead: true, CreatedAt: now, UpdatedAt: now,
		}
		mock.ExpectQuery(`UPDATE event_invitations`).
			WithArgs("inv-1").
			WillReturnRows(invitationRow(accepted))

		repo := NewEventInvitationRepository(db)
		inv, err := repo.AcceptIfPending(ctx, "inv-1")
		require.NoError(t, err)
		require.Equal(t, domain.InvitationAccepted, inv.Status)
		require.True(t, inv.IsRead)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no pending row maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE event_invitations`).
			WithArgs("inv-1").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventInvitationRepository(db)
		_, err = repo.AcceptIfPending(ctx, "inv-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventInvitationRepository_DeleteIfPending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending row is removed and returned", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		pending := &domain.EventInvitation{
			ID: "inv-1", EventID: "ev-1", SpeakerEmail: "spk@example.com",
			Status: domain.InvitationPending, CreatedAt: now, UpdatedAt: now,
		}
		mock.ExpectQuery(`DELETE FROM event_invitations`).
			WithArgs("inv-1").
			WillReturnRows(invitationRow(pending))

		repo := NewEventInvitationRepository(db)
		inv, err := repo.DeleteIfPending(ctx, "inv-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", inv.EventID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("resolved row maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`DELETE FROM event_invitations`).
			WithArgs("inv-1").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventInvitationRepository(db)
		_, err = repo.DeleteIfPending(ctx, "inv-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventInvitationRepository_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE event_invitations SET is_read`).
			WithArgs("inv-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventInvitationRepository(db)
		require.NoError(t, repo.MarkRead(ctx, "inv-1"))
	})

	t.Run("unknown id maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE event_invitations SET is_read`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventInvitationRepository(db)
		require.ErrorIs(t, repo.MarkRead(ctx, "missing"), domain.ErrNotFound)
	})
}
