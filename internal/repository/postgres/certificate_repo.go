package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"certinvite/internal/domain"

	"github.com/lib/pq"
)

type certificateRepository struct {
	DB *sql.DB
}

// NewCertificateRepository returns a domain.CertificateRepository implemented with Postgres.
func NewCertificateRepository(db *sql.DB) domain.CertificateRepository {
	return &certificateRepository{DB: db}
}

func (r *certificateRepository) ListByInvitationID(ctx context.Context, invitationID int64) ([]*domain.Certificate, error) {
	query := `
		SELECT silverbullet_invitation_id, serial_number, ca_type, revocation_status, expiry, issued_at
		FROM silverbullet_certificate
		WHERE silverbullet_invitation_id = $1
		ORDER BY revocation_status, expiry DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := []*domain.Certificate{}
	for rows.Next() {
		c := &domain.Certificate{}
		var status string
		if err := rows.Scan(&c.InvitationID, &c.SerialNumber, &c.CAType, &status, &c.Expiry, &c.IssuedAt); err != nil {
			return nil, err
		}
		c.RevocationStatus = domain.RevocationStatus(status)
		c.Expiry = c.Expiry.UTC()
		c.IssuedAt = c.IssuedAt.UTC()
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificateRepository) IssueWithinQuota(ctx context.Context, cert *domain.Certificate, now time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var (
		quantity int
		expiry   time.Time
	)
	lockQuery := `SELECT quantity, expiry FROM silverbullet_invitation WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lockQuery, cert.InvitationID).Scan(&quantity, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if now.After(expiry) {
		return domain.ErrInvitationExpired
	}
	if quantity > 0 {
		var issued int
		countQuery := `SELECT COUNT(*) FROM silverbullet_certificate WHERE silverbullet_invitation_id = $1`
		if err := tx.QueryRowContext(ctx, countQuery, cert.InvitationID).Scan(&issued); err != nil {
			return err
		}
		if issued >= quantity {
			return domain.ErrActivationsExhausted
		}
	}

	insertQuery := `
		INSERT INTO silverbullet_certificate
			(silverbullet_invitation_id, serial_number, ca_type, revocation_status, expiry, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, insertQuery, cert.InvitationID, cert.SerialNumber, cert.CAType, string(cert.RevocationStatus), cert.Expiry, cert.IssuedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateCertificate
		}
		return err
	}
	return tx.Commit()
}
