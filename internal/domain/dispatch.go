package domain

import (
	"context"
	"time"
)

// DispatchEventType names a side effect produced by a mutating operation.
type DispatchEventType string

const (
	DispatchRSVPConfirmed     DispatchEventType = "rsvp.confirmed"
	DispatchRSVPDeclined      DispatchEventType = "rsvp.declined"
	DispatchInvitationGranted DispatchEventType = "invitation.granted"
	DispatchTicketsIssued     DispatchEventType = "tickets.issued"
	DispatchRequestReceived   DispatchEventType = "invitation_request.received"
	DispatchRequestApproved   DispatchEventType = "invitation_request.approved"
	DispatchRequestRejected   DispatchEventType = "invitation_request.rejected"
)

// DispatchEvent is a typed side-effect record emitted by a mutating service
// after its transaction commits. Handlers run outside the transaction; their
// failure never affects the operation that produced the event.
type DispatchEvent struct {
	ID         string            `json:"id"`
	Type       DispatchEventType `json:"type"`
	EventID    string            `json:"event_id"`
	UserID     string            `json:"user_id"`
	Context    map[string]string `json:"context,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// DispatchHandler processes one dispatch event.
type DispatchHandler func(ctx context.Context, ev DispatchEvent) error

// Dispatcher fans dispatch events out to the handlers registered for their
// type. The handler map is built at startup and injected; there is no global
// registry.
type Dispatcher interface {
	Dispatch(ctx context.Context, events ...DispatchEvent)
}

// NotificationPort delivers a user-facing notification. Fire-and-forget: the
// core neither retries nor surfaces delivery failures to the caller.
type NotificationPort interface {
	Notify(ctx context.Context, userID string, eventType DispatchEventType, data map[string]string) error
}

// PotluckPort is the collaborator hook releasing a user's potluck item claims
// when they withdraw from an event.
type PotluckPort interface {
	ReleaseClaims(ctx context.Context, eventID, userID string) error
}
