package domain

import (
	"context"
	"time"
)

// Visibility controls who may see and enroll in an event.
type Visibility string

const (
	VisibilityPublic      Visibility = "PUBLIC"
	VisibilityPrivate     Visibility = "PRIVATE"
	VisibilityMembersOnly Visibility = "MEMBERS_ONLY"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusOpen      EventStatus = "OPEN"
	EventStatusClosed    EventStatus = "CLOSED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Event represents a single gated event owned by an organization.
type Event struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	Name           string      `json:"name"`
	Visibility     Visibility  `json:"visibility"`
	Status         EventStatus `json:"status"`

	// RequiresTicket means RSVP alone is not enough; attendance needs a ticket.
	RequiresTicket bool `json:"requires_ticket"`
	// MaxAttendees caps confirmed attendees. Nil means unlimited.
	MaxAttendees *int `json:"max_attendees,omitempty"`
	// MaxTicketsPerUser caps tickets held by one user. Nil means unlimited.
	MaxTicketsPerUser *int `json:"max_tickets_per_user,omitempty"`

	AcceptInvitationRequests bool `json:"accept_invitation_requests"`
	WaitlistEnabled          bool `json:"waitlist_enabled"`
	// QuestionnaireRequired means enrollment needs a passing questionnaire
	// submission unless the user's invitation waives it.
	QuestionnaireRequired bool `json:"questionnaire_required"`

	// ApplyDeadline is the effective cutoff for new enrollments. Nil means no
	// deadline.
	ApplyDeadline *time.Time `json:"apply_deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enrollable reports whether the event's lifecycle state admits new
// enrollments at all. Owner and staff bypass this in the eligibility check.
func (e *Event) Enrollable() bool {
	return e.Status == EventStatusOpen
}

// DeadlinePassed reports whether the apply deadline, if any, is behind now.
func (e *Event) DeadlinePassed(now time.Time) bool {
	return e.ApplyDeadline != nil && now.After(*e.ApplyDeadline)
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
}
