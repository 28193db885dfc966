package domain

import (
	"context"
	"time"
)

// EventInvitation is a standing grant of access to an event for one user.
// Unique per (event, user). Its presence satisfies the visibility gate for
// private events; the override flags additionally waive individual gates.
type EventInvitation struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	// TierID, when set, is the ticket tier unlocked by this invitation.
	TierID *string `json:"tier_id,omitempty"`
	// OverridesMaxAttendees lets the holder enroll past the event's
	// max_attendees cap.
	OverridesMaxAttendees bool `json:"overrides_max_attendees"`
	// WaivesQuestionnaire lets the holder skip the questionnaire gate.
	WaivesQuestionnaire bool      `json:"waives_questionnaire"`
	CreatedAt           time.Time `json:"created_at"`
}

// EventInvitationRepository defines storage operations for invitations.
type EventInvitationRepository interface {
	// GetOrCreate returns the existing invitation for (event, user) or inserts
	// inv. created reports whether a new row was written. The (event, user)
	// uniqueness is enforced by the storage layer.
	GetOrCreate(ctx context.Context, inv *EventInvitation) (out *EventInvitation, created bool, err error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventInvitation, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventInvitation, error)
}
