package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"certinvite/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateService_Issue(t *testing.T) {
	ctx := context.Background()
	certExpiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		activations int
		existing    int
		advance     time.Duration
		token       func(created *domain.Invitation) string
		setup       func(f *ledgerFixture, created *domain.Invitation)
		serial      string
		wantErr     error
	}{
		{
			name:        "first certificate",
			activations: 2,
			serial:      "0a1b",
		},
		{
			name:        "last remaining activation",
			activations: 2,
			existing:    1,
			serial:      "0a1c",
		},
		{
			name:        "unlimited invitation",
			activations: 0,
			existing:    4,
			serial:      "0a1d",
		},
		{
			name:        "unknown token",
			activations: 2,
			token:       func(*domain.Invitation) string { return "nope" },
			serial:      "0a1e",
			wantErr:     domain.ErrNotFound,
		},
		{
			name:        "expired invitation",
			activations: 2,
			advance:     DefaultInvitationValidity + time.Minute,
			serial:      "0a1f",
			wantErr:     domain.ErrInvitationExpired,
		},
		{
			name:        "redeemed invitation",
			activations: 1,
			existing:    1,
			serial:      "0a20",
			wantErr:     domain.ErrInvitationRedeemed,
		},
		{
			name:        "quota lost to a concurrent issue",
			activations: 1,
			setup: func(f *ledgerFixture, created *domain.Invitation) {
				f.certs.issueErr = domain.ErrActivationsExhausted
			},
			serial:  "0a21",
			wantErr: domain.ErrActivationsExhausted,
		},
		{
			name:        "blank serial",
			activations: 1,
			serial:      "  ",
			wantErr:     domain.ErrInvalidInput,
		},
		{
			name:        "store failure",
			activations: 1,
			setup: func(f *ledgerFixture, created *domain.Invitation) {
				f.certs.issueErr = sql.ErrConnDone
			},
			serial:  "0a22",
			wantErr: domain.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			created, err := f.ledger.Create(ctx, 3, 4, tt.activations)
			require.NoError(t, err)
			for i := 0; i < tt.existing; i++ {
				f.certs.add(created.ID, certificate("old", domain.CertificateNotRevoked, certExpiry))
			}
			if tt.setup != nil {
				tt.setup(f, created)
			}
			f.clock.Advance(tt.advance)

			token := created.Token
			if tt.token != nil {
				token = tt.token(created)
			}
			svc := NewCertificateService(f.ledger, f.certs, f.clock, f.metrics, discardLogger())
			cert, err := svc.Issue(ctx, token, tt.serial, "RSA", certExpiry)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Zero(t, f.metrics.issued)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, cert.InvitationID)
			assert.Equal(t, tt.serial, cert.SerialNumber)
			assert.Equal(t, domain.CertificateNotRevoked, cert.RevocationStatus)
			assert.Equal(t, f.clock.Now(), cert.IssuedAt)
			assert.Equal(t, 1, f.metrics.issued)

			inv, err := f.ledger.Load(ctx, created.Token)
			require.NoError(t, err)
			assert.Equal(t, tt.existing+1, inv.IssuedCount())
		})
	}
}

func TestCertificateService_IssueUntilRedeemed(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	svc := NewCertificateService(f.ledger, f.certs, f.clock, nil, discardLogger())
	created, err := f.ledger.Create(ctx, 1, 1, 2)
	require.NoError(t, err)

	_, err = svc.Issue(ctx, created.Token, "s1", "RSA", f.clock.Now().Add(time.Hour))
	require.NoError(t, err)
	inv, err := f.ledger.Load(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationPartiallyRedeemed, inv.Status)
	assert.Equal(t, 1, inv.ActivationsRemaining)

	_, err = svc.Issue(ctx, created.Token, "s2", "RSA", f.clock.Now().Add(time.Hour))
	require.NoError(t, err)
	inv, err = f.ledger.Load(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationRedeemed, inv.Status)
	assert.Equal(t, 0, inv.ActivationsRemaining)

	_, err = svc.Issue(ctx, created.Token, "s3", "RSA", f.clock.Now().Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrInvitationRedeemed)
}
