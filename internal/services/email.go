package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"certinvite/internal/domain"
)

const invitationTemplate = "invitation"

// InvitationMailBranding holds the names printed in invitation mails.
type InvitationMailBranding struct {
	ConsortiumName string
	ProductName    string
}

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	branding InvitationMailBranding
	logger   *slog.Logger
}

// NewEmailService returns an InvitationNotifier that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, branding InvitationMailBranding, logger *slog.Logger) domain.InvitationNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, branding: branding, logger: logger}
}

// SendInvitation sends the redemption link using the "invitation" template.
func (s *emailService) SendInvitation(ctx context.Context, inv *domain.Invitation, recipient, link string) error {
	if inv == nil || inv.ID == 0 {
		return fmt.Errorf("cannot send an invalid invitation")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("%w: recipient is required", domain.ErrInvalidInput)
	}
	data := &domain.InvitationEmailData{
		Email:          recipient,
		Link:           link,
		ConsortiumName: s.branding.ConsortiumName,
		ProductName:    s.branding.ProductName,
		Activations:    inv.ActivationsTotal,
		ExpiresOn:      inv.Expiry.UTC().Format("2006-01-02 15:04 MST"),
	}
	subject, htmlBody, textBody, err := s.renderer.Render(invitationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render invitation template: %w", err)
	}
	if err := s.mailer.Send(ctx, recipient, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	s.logger.InfoContext(ctx, "invitation email sent", "invitation_id", inv.ID)
	return nil
}
