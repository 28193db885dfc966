package domain

import "context"

// Mailer sends a single email message.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named notification template with data and
// returns the subject, HTML body, and plain-text body.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// UserDirectory resolves a user ID to an email address for notification
// delivery. User records themselves live outside this core.
type UserDirectory interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}
