package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"certinvite/internal/domain"
)

type certificateService struct {
	ledger          domain.InvitationLedger
	certificateRepo domain.CertificateRepository
	clock           domain.Clock
	metrics         domain.LedgerMetrics
	logger          *slog.Logger
}

// NewCertificateService returns a CertificateService that records certificates
// against invitations loaded through ledger. metrics may be nil.
func NewCertificateService(ledger domain.InvitationLedger, certificateRepo domain.CertificateRepository, clock domain.Clock, metrics domain.LedgerMetrics, logger *slog.Logger) domain.CertificateService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &certificateService{
		ledger:          ledger,
		certificateRepo: certificateRepo,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
	}
}

// Issue records a certificate minted under the invitation identified by token.
// The status check here is advisory; the repository enforces the quota under a
// row lock so concurrent issues cannot exceed it.
func (s *certificateService) Issue(ctx context.Context, token, serialNumber, caType string, expiry time.Time) (*domain.Certificate, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	caType = strings.TrimSpace(caType)
	if serialNumber == "" || caType == "" {
		return nil, fmt.Errorf("%w: serial number and ca type are required", domain.ErrInvalidInput)
	}

	inv, err := s.ledger.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case domain.InvitationInvalid:
		return nil, domain.ErrNotFound
	case domain.InvitationExpired:
		return nil, domain.ErrInvitationExpired
	case domain.InvitationRedeemed:
		return nil, domain.ErrInvitationRedeemed
	}

	now := s.clock.Now().UTC()
	cert := &domain.Certificate{
		InvitationID:     inv.ID,
		SerialNumber:     serialNumber,
		CAType:           caType,
		RevocationStatus: domain.CertificateNotRevoked,
		Expiry:           expiry.UTC(),
		IssuedAt:         now,
	}
	if err := s.certificateRepo.IssueWithinQuota(ctx, cert, now); err != nil {
		switch {
		case errors.Is(err, domain.ErrActivationsExhausted),
			errors.Is(err, domain.ErrInvitationExpired),
			errors.Is(err, domain.ErrDuplicateCertificate),
			errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return nil, storeError("issue certificate", err)
	}

	s.metrics.CertificateIssued()
	s.logger.InfoContext(ctx, "certificate issued",
		"invitation_id", inv.ID,
		"serial_number", serialNumber,
		"ca_type", caType,
	)
	return cert, nil
}
