package services

import (
	"context"
	"fmt"

	"eventgate/internal/domain"
)

// notificationTemplates maps dispatch event types to email template names.
// Types without an entry produce no email.
var notificationTemplates = map[domain.DispatchEventType]string{
	domain.DispatchInvitationGranted: "invitation_granted",
	domain.DispatchRequestApproved:   "request_approved",
	domain.DispatchRequestRejected:   "request_rejected",
	domain.DispatchTicketsIssued:     "tickets_issued",
}

type emailNotifier struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	users    domain.UserDirectory
}

// NewEmailNotifier returns a NotificationPort that delivers notifications as
// email through the given Mailer.
func NewEmailNotifier(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, users domain.UserDirectory) domain.NotificationPort {
	return &emailNotifier{mailer: mailer, renderer: renderer, users: users}
}

func (n *emailNotifier) Notify(ctx context.Context, userID string, eventType domain.DispatchEventType, data map[string]string) error {
	tmpl, ok := notificationTemplates[eventType]
	if !ok {
		return nil
	}
	email, err := n.users.EmailFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve email for user %s: %w", userID, err)
	}
	subject, htmlBody, textBody, err := n.renderer.Render(tmpl, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", tmpl, err)
	}
	if err := n.mailer.Send(email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", tmpl, err)
	}
	return nil
}
