package domain

import (
	"context"
	"time"
)

// InvitationStatus is the lifecycle status of an invitation. It is derived on
// every load and never stored.
type InvitationStatus int

const (
	InvitationValid InvitationStatus = iota
	InvitationPartiallyRedeemed
	InvitationRedeemed
	InvitationExpired
	InvitationInvalid
)

// String returns the lowercase label used in API responses and logs.
func (s InvitationStatus) String() string {
	switch s {
	case InvitationValid:
		return "valid"
	case InvitationPartiallyRedeemed:
		return "partially_redeemed"
	case InvitationRedeemed:
		return "redeemed"
	case InvitationExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s InvitationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown labels decode as InvitationInvalid.
func (s *InvitationStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "valid":
		*s = InvitationValid
	case "partially_redeemed":
		*s = InvitationPartiallyRedeemed
	case "redeemed":
		*s = InvitationRedeemed
	case "expired":
		*s = InvitationExpired
	default:
		*s = InvitationInvalid
	}
	return nil
}

// Usable reports whether further certificates may be issued under the invitation.
func (s InvitationStatus) Usable() bool {
	return s == InvitationValid || s == InvitationPartiallyRedeemed
}

// InvalidInvitationExpiry is the expiry reported for tokens that match no row.
var InvalidInvitationExpiry = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Invitation is a bearer token entitling a user to provision client certificates.
// swagger:model Invitation
type Invitation struct {
	ID                   int64            `json:"id"`
	ProfileID            int64            `json:"profile_id"`
	UserID               int64            `json:"user_id"`
	Token                string           `json:"token"`
	Expiry               time.Time        `json:"expiry"`
	ActivationsTotal     int              `json:"activations_total"`
	ActivationsRemaining int              `json:"activations_remaining"`
	Status               InvitationStatus `json:"status"`
	Certificates         []*Certificate   `json:"certificates"`
}

// NewInvalidInvitation returns the sentinel invitation for a token that has no row.
func NewInvalidInvitation(token string) *Invitation {
	return &Invitation{
		Token:        token,
		Expiry:       InvalidInvitationExpiry,
		Status:       InvitationInvalid,
		Certificates: []*Certificate{},
	}
}

// Unlimited reports whether the invitation has no cap on issued certificates.
func (i *Invitation) Unlimited() bool {
	return i.ActivationsTotal == 0
}

// IssuedCount is the number of certificates issued under the invitation.
func (i *Invitation) IssuedCount() int {
	return len(i.Certificates)
}

// InvitationRepository defines storage operations for invitation rows.
type InvitationRepository interface {
	// Create inserts a row and sets inv.ID. A duplicate token returns ErrTokenCollision.
	Create(ctx context.Context, inv *Invitation) error
	// GetByToken returns the latest expiring row for the token, or ErrNotFound.
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListByProfileID(ctx context.Context, profileID int64, params PaginationParams) ([]*Invitation, int, error)
	// UpdateExpiry sets expiry on the row matching (id, profileID).
	UpdateExpiry(ctx context.Context, id, profileID int64, expiry time.Time) error
}

// InvitationLedger is the sole authority for invitation lifecycle transitions.
type InvitationLedger interface {
	Create(ctx context.Context, profileID, userID int64, activationCount int) (*Invitation, error)
	Load(ctx context.Context, token string) (*Invitation, error)
	Revoke(ctx context.Context, inv *Invitation) error
	ListByProfile(ctx context.Context, profileID int64, params PaginationParams) ([]*Invitation, int, error)
}
