package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"certinvite/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certificateRowColumns = []string{"silverbullet_invitation_id", "serial_number", "ca_type", "revocation_status", "expiry", "issued_at"}

func TestCertificateRepository_ListByInvitationID(t *testing.T) {
	ctx := context.Background()
	late := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	issued := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ordered by revocation status then expiry", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM silverbullet_certificate\s+WHERE silverbullet_invitation_id = \$1\s+ORDER BY revocation_status, expiry DESC`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(certificateRowColumns).
				AddRow(int64(3), "0a", "RSA", "not_revoked", late, issued).
				AddRow(int64(3), "0b", "ECDSA", "not_revoked", early, issued).
				AddRow(int64(3), "0c", "RSA", "revoked", late, issued))

		repo := NewCertificateRepository(db)
		certs, err := repo.ListByInvitationID(ctx, 3)
		require.NoError(t, err)
		require.Len(t, certs, 3)
		assert.Equal(t, "0a", certs[0].SerialNumber)
		assert.Equal(t, domain.CertificateNotRevoked, certs[0].RevocationStatus)
		assert.Equal(t, "ECDSA", certs[1].CAType)
		assert.Equal(t, domain.CertificateRevoked, certs[2].RevocationStatus)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none issued", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM silverbullet_certificate`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(certificateRowColumns))

		repo := NewCertificateRepository(db)
		certs, err := repo.ListByInvitationID(ctx, 3)
		require.NoError(t, err)
		assert.NotNil(t, certs)
		assert.Empty(t, certs)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM silverbullet_certificate`).WillReturnError(sql.ErrConnDone)

		repo := NewCertificateRepository(db)
		_, err = repo.ListByInvitationID(ctx, 3)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestCertificateRepository_IssueWithinQuota(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	invitationExpiry := now.Add(24 * time.Hour)
	certExpiry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	newCert := func() *domain.Certificate {
		return &domain.Certificate{
			InvitationID:     3,
			SerialNumber:     "0a",
			CAType:           "RSA",
			RevocationStatus: domain.CertificateNotRevoked,
			Expiry:           certExpiry,
			IssuedAt:         now,
		}
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		errIs   error
		wantErr bool
	}{
		{
			name: "below quantity",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT quantity, expiry FROM silverbullet_invitation WHERE id = \$1 FOR UPDATE`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity", "expiry"}).AddRow(2, invitationExpiry))
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM silverbullet_certificate WHERE silverbullet_invitation_id = \$1`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec(`INSERT INTO silverbullet_certificate`).
					WithArgs(int64(3), "0a", "RSA", "not_revoked", certExpiry, now).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unlimited skips the count",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity", "expiry"}).AddRow(0, invitationExpiry))
				mock.ExpectExec(`INSERT INTO silverbullet_certificate`).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "quantity exhausted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity", "expiry"}).AddRow(2, invitationExpiry))
				mock.ExpectQuery(`SELECT COUNT`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectRollback()
			},
			errIs:   domain.ErrActivationsExhausted,
			wantErr: true,
		},
		{
			name: "invitation expired",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity", "expiry"}).AddRow(2, now.Add(-time.Second)))
				mock.ExpectRollback()
			},
			errIs:   domain.ErrInvitationExpired,
			wantErr: true,
		},
		{
			name: "invitation missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity", "expiry"}))
				mock.ExpectRollback()
			},
			errIs:   domain.ErrNotFound,
			wantErr: true,
		},
		{
			name: "duplicate serial",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity", "expiry"}).AddRow(0, invitationExpiry))
				mock.ExpectExec(`INSERT INTO silverbullet_certificate`).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			errIs:   domain.ErrDuplicateCertificate,
			wantErr: true,
		},
		{
			name: "begin fails",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			errIs:   sql.ErrConnDone,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewCertificateRepository(db)
			err = repo.IssueWithinQuota(ctx, newCert(), now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.errIs), "got %v", err)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
