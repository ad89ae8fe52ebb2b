package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"certinvite/internal/domain"

	"github.com/lib/pq"
)

const invitationColumns = `id, profile_id, silverbullet_user_id, token, quantity, expiry`

type invitationRepository struct {
	DB *sql.DB
}

// NewInvitationRepository returns a domain.InvitationRepository implemented with Postgres.
func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{DB: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO silverbullet_invitation (profile_id, silverbullet_user_id, token, quantity, expiry)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.ProfileID, inv.UserID, inv.Token, inv.ActivationsTotal, inv.Expiry).
		Scan(&inv.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrTokenCollision
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM silverbullet_invitation
		WHERE token = $1
		ORDER BY expiry DESC
		LIMIT 1
	`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListByProfileID(ctx context.Context, profileID int64, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM silverbullet_invitation WHERE profile_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, profileID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + invitationColumns + `
		FROM silverbullet_invitation
		WHERE profile_id = $1
		ORDER BY expiry DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, profileID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

// UpdateExpiry never moves an expiry later, so revoking twice keeps the first revocation time.
func (r *invitationRepository) UpdateExpiry(ctx context.Context, id, profileID int64, expiry time.Time) error {
	query := `
		UPDATE silverbullet_invitation
		SET expiry = LEAST(expiry, $3)
		WHERE id = $1 AND profile_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query, id, profileID, expiry)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	if err := row.Scan(&inv.ID, &inv.ProfileID, &inv.UserID, &inv.Token, &inv.ActivationsTotal, &inv.Expiry); err != nil {
		return nil, err
	}
	inv.Expiry = inv.Expiry.UTC()
	return inv, nil
}
