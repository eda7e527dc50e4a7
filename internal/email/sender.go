// Package email sends transactional emails over SMTP using HTML templates.
package email

import (
	"context"

	"slingshot_backend/platform/config"
)

type Sender interface {
	SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error
	SendBusinessInviteEmail(ctx context.Context, toEmail, businessName, inviteURL string) error
}

// NewSender returns the SMTP sender, or a no-op when email is disabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender is used when email delivery is disabled (local development, tests).
type NoopSender struct{}

func (NoopSender) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	return nil
}

func (NoopSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	return nil
}

func (NoopSender) SendBusinessInviteEmail(ctx context.Context, toEmail, businessName, inviteURL string) error {
	return nil
}
