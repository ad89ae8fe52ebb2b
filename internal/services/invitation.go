package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"certinvite/internal/domain"
)

const (
	// DefaultInvitationValidity is how long a new invitation can be redeemed.
	DefaultInvitationValidity = 7 * 24 * time.Hour
	defaultContextTimeout     = 5 * time.Second
	maxTokenAttempts          = 3
)

// LedgerConfig holds the tunables of the invitation ledger. Zero values fall back to defaults.
type LedgerConfig struct {
	Validity       time.Duration
	ContextTimeout time.Duration
	GenerateToken  TokenGenerator
}

type invitationLedger struct {
	invitationRepo  domain.InvitationRepository
	certificateRepo domain.CertificateRepository
	clock           domain.Clock
	metrics         domain.LedgerMetrics
	logger          *slog.Logger
	validity        time.Duration
	contextTimeout  time.Duration
	generateToken   TokenGenerator
}

// NewInvitationLedger creates an InvitationLedger over the given stores.
// metrics may be nil.
func NewInvitationLedger(
	invitationRepo domain.InvitationRepository,
	certificateRepo domain.CertificateRepository,
	clock domain.Clock,
	metrics domain.LedgerMetrics,
	logger *slog.Logger,
	cfg LedgerConfig,
) domain.InvitationLedger {
	if clock == nil {
		clock = domain.SystemClock()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Validity <= 0 {
		cfg.Validity = DefaultInvitationValidity
	}
	if cfg.ContextTimeout <= 0 {
		cfg.ContextTimeout = defaultContextTimeout
	}
	if cfg.GenerateToken == nil {
		cfg.GenerateToken = GenerateInvitationToken
	}
	return &invitationLedger{
		invitationRepo:  invitationRepo,
		certificateRepo: certificateRepo,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
		validity:        cfg.Validity,
		contextTimeout:  cfg.ContextTimeout,
		generateToken:   cfg.GenerateToken,
	}
}

func (s *invitationLedger) Create(ctx context.Context, profileID, userID int64, activationCount int) (*domain.Invitation, error) {
	if profileID < 0 || userID < 0 {
		return nil, fmt.Errorf("%w: identifiers must not be negative", domain.ErrInvalidInput)
	}
	if activationCount < 0 {
		return nil, fmt.Errorf("%w: activation count must not be negative", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var created *domain.Invitation
	for attempt := 1; attempt <= maxTokenAttempts && created == nil; attempt++ {
		token, err := s.generateToken()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
		}
		inv := &domain.Invitation{
			ProfileID:        profileID,
			UserID:           userID,
			Token:            token,
			Expiry:           s.clock.Now().UTC().Add(s.validity),
			ActivationsTotal: activationCount,
		}
		err = s.invitationRepo.Create(ctx, inv)
		switch {
		case err == nil:
			created = inv
		case errors.Is(err, domain.ErrTokenCollision):
			s.logger.WarnContext(ctx, "invitation token collision, retrying", "attempt", attempt, "profile_id", profileID)
		default:
			return nil, storeError("create invitation", err)
		}
	}
	if created == nil {
		return nil, fmt.Errorf("%w after %d attempts", domain.ErrTokenGeneration, maxTokenAttempts)
	}

	s.metrics.InvitationCreated()
	s.logger.InfoContext(ctx, "invitation created",
		"invitation_id", created.ID,
		"profile_id", profileID,
		"user_id", userID,
		"activations", activationCount,
	)
	return s.load(ctx, created.Token)
}

func (s *invitationLedger) Load(ctx context.Context, token string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.load(ctx, token)
}

func (s *invitationLedger) load(ctx context.Context, token string) (*domain.Invitation, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.DebugContext(ctx, "invitation token not found")
			s.metrics.InvitationLoaded(domain.InvitationInvalid)
			return domain.NewInvalidInvitation(token), nil
		}
		return nil, storeError("load invitation", err)
	}
	if err := s.attachCertificates(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// attachCertificates fetches the certificates of inv and derives its status.
func (s *invitationLedger) attachCertificates(ctx context.Context, inv *domain.Invitation) error {
	certs, err := s.certificateRepo.ListByInvitationID(ctx, inv.ID)
	if err != nil {
		return storeError("list certificates", err)
	}
	if certs == nil {
		certs = []*domain.Certificate{}
	}
	inv.Certificates = certs

	issued := len(certs)
	if err := CheckIssuedCount(inv.ActivationsTotal, issued); err != nil {
		s.metrics.ConsistencyFault()
		s.logger.ErrorContext(ctx, "invitation consistency fault",
			"invitation_id", inv.ID,
			"profile_id", inv.ProfileID,
			"err", err,
		)
	}
	inv.Status, inv.ActivationsRemaining = DeriveStatus(s.clock.Now(), inv.Expiry, inv.ActivationsTotal, issued)
	s.metrics.InvitationLoaded(inv.Status)
	s.logger.DebugContext(ctx, "invitation loaded",
		"invitation_id", inv.ID,
		"status", inv.Status.String(),
		"issued", issued,
	)
	return nil
}

func (s *invitationLedger) Revoke(ctx context.Context, inv *domain.Invitation) error {
	if inv == nil || inv.ID == 0 {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.invitationRepo.UpdateExpiry(ctx, inv.ID, inv.ProfileID, s.clock.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return storeError("revoke invitation", err)
	}
	s.metrics.InvitationRevoked()
	s.logger.InfoContext(ctx, "invitation revoked", "invitation_id", inv.ID, "profile_id", inv.ProfileID)
	return nil
}

func (s *invitationLedger) ListByProfile(ctx context.Context, profileID int64, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invs, total, err := s.invitationRepo.ListByProfileID(ctx, profileID, params)
	if err != nil {
		return nil, 0, storeError("list invitations", err)
	}
	for _, inv := range invs {
		if err := s.attachCertificates(ctx, inv); err != nil {
			return nil, 0, err
		}
	}
	if invs == nil {
		invs = []*domain.Invitation{}
	}
	return invs, total, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

type noopMetrics struct{}

func (noopMetrics) InvitationCreated() {}
func (noopMetrics) InvitationRevoked() {}
func (noopMetrics) InvitationLoaded(domain.InvitationStatus) {}
func (noopMetrics) ConsistencyFault() {}
func (noopMetrics) CertificateIssued() {}
