// Package notification subscribes to domain events and sends the
// corresponding transactional emails. Domain modules publish events and never
// talk to the email sender directly.
package notification

import (
	"context"
	"fmt"
	"net/url"

	"slingshot_backend/internal/email"
	"slingshot_backend/internal/events"
	"slingshot_backend/platform/config"
	"slingshot_backend/platform/logger"
)

type Module struct {
	sender email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

func NewModule(bus events.Bus, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	m := &Module{sender: sender, cfg: cfg, log: log}

	bus.Subscribe(events.UserSignedUp{}.EventName(), m)
	bus.Subscribe(events.PasswordResetRequested{}.EventName(), m)
	bus.Subscribe(events.MemberInvited{}.EventName(), m)

	log.Info("notification module registered event handlers")
	return m
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserSignedUp:
		return m.handleUserSignedUp(ctx, e)
	case events.PasswordResetRequested:
		return m.handlePasswordResetRequested(ctx, e)
	case events.MemberInvited:
		return m.handleMemberInvited(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleUserSignedUp(ctx context.Context, e events.UserSignedUp) error {
	verifyURL := m.appLink("/verify-email", url.Values{"token": {e.VerifyToken}})
	if err := m.sender.SendVerificationEmail(ctx, e.Email, verifyURL); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	m.log.Info("verification email sent", "userId", e.UserID)
	return nil
}

func (m *Module) handlePasswordResetRequested(ctx context.Context, e events.PasswordResetRequested) error {
	resetURL := m.appLink("/reset-password", url.Values{"token": {e.ResetToken}})
	if err := m.sender.SendPasswordResetEmail(ctx, e.Email, resetURL); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	m.log.Info("password reset email sent", "userId", e.UserID)
	return nil
}

func (m *Module) handleMemberInvited(ctx context.Context, e events.MemberInvited) error {
	inviteURL := m.appLink("/invites/accept", url.Values{"token": {e.InviteToken}})
	if err := m.sender.SendBusinessInviteEmail(ctx, e.Email, e.BusinessName, inviteURL); err != nil {
		return fmt.Errorf("send business invite email: %w", err)
	}
	m.log.Info("invite email sent", "businessId", e.BusinessID, "role", e.Role)
	return nil
}

func (m *Module) appLink(path string, query url.Values) string {
	return m.cfg.GetAppBaseURL() + path + "?" + query.Encode()
}
