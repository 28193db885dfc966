package services

import (
	"context"
	"fmt"
	"testing"

	"eventgate/internal/domain"
)

type stubMailer struct {
	sent    []string // recipient
	sendErr error
}

func (m *stubMailer) Send(to, subject, html, text string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, to)
	return nil
}

type stubRenderer struct{}

func (stubRenderer) Render(templateName string, data interface{}) (string, string, string, error) {
	return "subject:" + templateName, "<p>body</p>", "body", nil
}

type stubUserDirectory struct {
	emails map[string]string
}

func (d *stubUserDirectory) EmailFor(ctx context.Context, userID string) (string, error) {
	email, ok := d.emails[userID]
	if !ok {
		return "", fmt.Errorf("unknown user %s", userID)
	}
	return email, nil
}

func TestEmailNotifier(t *testing.T) {
	mailer := &stubMailer{}
	notifier := NewEmailNotifier(mailer, stubRenderer{}, &stubUserDirectory{
		emails: map[string]string{"user1": "user1@example.com"},
	})

	err := notifier.Notify(context.Background(), "user1", domain.DispatchInvitationGranted, nil)
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "user1@example.com" {
		t.Fatalf("sent to %v, want [user1@example.com]", mailer.sent)
	}
}

// Event types without a template produce no email and no error.
func TestEmailNotifierSkipsUnmappedTypes(t *testing.T) {
	mailer := &stubMailer{}
	notifier := NewEmailNotifier(mailer, stubRenderer{}, &stubUserDirectory{})

	err := notifier.Notify(context.Background(), "user1", domain.DispatchRSVPConfirmed, nil)
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("sent %d emails, want 0", len(mailer.sent))
	}
}

func TestEmailNotifierUnknownUser(t *testing.T) {
	mailer := &stubMailer{}
	notifier := NewEmailNotifier(mailer, stubRenderer{}, &stubUserDirectory{})

	err := notifier.Notify(context.Background(), "ghost", domain.DispatchTicketsIssued, nil)
	if err == nil {
		t.Fatal("Notify() error = nil, want an error for an unknown user")
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("sent %d emails, want 0", len(mailer.sent))
	}
}
