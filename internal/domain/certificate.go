package domain

import (
	"context"
	"time"
)

// RevocationStatus is the revocation state of an issued certificate.
type RevocationStatus string

const (
	CertificateNotRevoked RevocationStatus = "not_revoked"
	CertificateRevoked    RevocationStatus = "revoked"
)

// Certificate is a client certificate minted under an invitation.
// swagger:model Certificate
type Certificate struct {
	InvitationID     int64            `json:"invitation_id"`
	SerialNumber     string           `json:"serial_number"`
	CAType           string           `json:"ca_type"`
	RevocationStatus RevocationStatus `json:"revocation_status"`
	Expiry           time.Time        `json:"expiry"`
	IssuedAt         time.Time        `json:"issued_at"`
}

// CertificateRepository defines storage operations for issued certificates.
type CertificateRepository interface {
	// ListByInvitationID returns certificates ordered valid before revoked, then expiry descending.
	ListByInvitationID(ctx context.Context, invitationID int64) ([]*Certificate, error)
	// IssueWithinQuota inserts cert only if the invitation is unexpired at now and
	// below its quantity, checked under a row lock.
	IssueWithinQuota(ctx context.Context, cert *Certificate, now time.Time) error
}

// CertificateService records certificates issued against invitations.
type CertificateService interface {
	Issue(ctx context.Context, token, serialNumber, caType string, expiry time.Time) (*Certificate, error)
}
