package notification

import (
	"context"
	"testing"

	"slingshot_backend/internal/events"
	platformevents "slingshot_backend/platform/events"
	"slingshot_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingSender struct {
	verificationTo  string
	verificationURL string
	resetTo         string
	resetURL        string
	inviteTo        string
	inviteBusiness  string
	inviteURL       string
}

func (r *recordingSender) SendVerificationEmail(_ context.Context, toEmail, verifyURL string) error {
	r.verificationTo = toEmail
	r.verificationURL = verifyURL
	return nil
}

func (r *recordingSender) SendPasswordResetEmail(_ context.Context, toEmail, resetURL string) error {
	r.resetTo = toEmail
	r.resetURL = resetURL
	return nil
}

func (r *recordingSender) SendBusinessInviteEmail(_ context.Context, toEmail, businessName, inviteURL string) error {
	r.inviteTo = toEmail
	r.inviteBusiness = businessName
	r.inviteURL = inviteURL
	return nil
}

type fakeNotificationConfig struct{}

func (fakeNotificationConfig) GetAppBaseURL() string { return "https://app.example.com" }

func newTestModule(t *testing.T) (*Module, *recordingSender) {
	t.Helper()
	log := logger.New("development")
	sender := &recordingSender{}
	bus := platformevents.NewInMemoryBus(log)
	return NewModule(bus, sender, fakeNotificationConfig{}, log), sender
}

func TestSignUpSendsVerificationEmail(t *testing.T) {
	m, sender := newTestModule(t)

	err := m.Handle(context.Background(), events.UserSignedUp{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      uuid.New(),
		Email:       "new@example.com",
		VerifyToken: "tok123",
	})
	if err != nil {
		t.Fatalf("handle sign-up event: %v", err)
	}

	if sender.verificationTo != "new@example.com" {
		t.Fatalf("expected verification email to new@example.com, got %q", sender.verificationTo)
	}
	want := "https://app.example.com/verify-email?token=tok123"
	if sender.verificationURL != want {
		t.Fatalf("expected verify URL %q, got %q", want, sender.verificationURL)
	}
}

func TestPasswordResetSendsResetEmail(t *testing.T) {
	m, sender := newTestModule(t)

	err := m.Handle(context.Background(), events.PasswordResetRequested{
		BaseEvent:  events.NewBaseEvent(),
		UserID:     uuid.New(),
		Email:      "user@example.com",
		ResetToken: "reset456",
	})
	if err != nil {
		t.Fatalf("handle password reset event: %v", err)
	}

	want := "https://app.example.com/reset-password?token=reset456"
	if sender.resetURL != want {
		t.Fatalf("expected reset URL %q, got %q", want, sender.resetURL)
	}
}

func TestMemberInvitedSendsInviteEmail(t *testing.T) {
	m, sender := newTestModule(t)

	err := m.Handle(context.Background(), events.MemberInvited{
		BaseEvent:    events.NewBaseEvent(),
		BusinessID:   uuid.New(),
		BusinessName: "Acme Corp",
		Email:        "invitee@example.com",
		Role:         "manager",
		InviteToken:  "invite789",
	})
	if err != nil {
		t.Fatalf("handle member invited event: %v", err)
	}

	if sender.inviteBusiness != "Acme Corp" {
		t.Fatalf("expected invite for Acme Corp, got %q", sender.inviteBusiness)
	}
	want := "https://app.example.com/invites/accept?token=invite789"
	if sender.inviteURL != want {
		t.Fatalf("expected invite URL %q, got %q", want, sender.inviteURL)
	}
}
