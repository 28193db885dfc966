package domain

import (
	"context"
	"time"
)

// RSVPAnswer is an attendee's reply to an event.
type RSVPAnswer string

const (
	RSVPYes   RSVPAnswer = "YES"
	RSVPNo    RSVPAnswer = "NO"
	RSVPMaybe RSVPAnswer = "MAYBE"
)

// ValidRSVPAnswer reports whether a is one of the known answers.
func ValidRSVPAnswer(a RSVPAnswer) bool {
	switch a {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}

// EventRSVP is a user's reply to an event. Unique per (event, user); setting
// a new answer overwrites the old one.
type EventRSVP struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	UserID    string     `json:"user_id"`
	Answer    RSVPAnswer `json:"answer"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EnrollmentStatus bundles a user's current RSVP (if any) with their
// eligibility for the event, for rendering "my status" views.
type EnrollmentStatus struct {
	RSVP        *EventRSVP        `json:"rsvp,omitempty"`
	Eligibility EligibilityResult `json:"eligibility"`
}

// EnrollmentService defines the RSVP-facing operations.
type EnrollmentService interface {
	// RSVP records the user's answer for the event. On an eligibility denial
	// it returns (nil, result, nil): the denial is data, not an error.
	RSVP(ctx context.Context, userID, eventID string, answer RSVPAnswer) (*EventRSVP, EligibilityResult, error)
	// MyStatus is read-only and safe to call repeatedly.
	MyStatus(ctx context.Context, userID, eventID string) (*EnrollmentStatus, error)
}

// EventRSVPRepository defines storage operations for RSVPs.
type EventRSVPRepository interface {
	// Upsert creates the RSVP or overwrites the answer of an existing one for
	// the same (event, user). The storage layer enforces the uniqueness.
	Upsert(ctx context.Context, rsvp *EventRSVP) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventRSVP, error)
	ListByUserID(ctx context.Context, userID string) ([]*EventRSVP, error)
}
