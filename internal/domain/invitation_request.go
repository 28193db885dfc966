package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateRequest is returned when a PENDING invitation request already
// exists for the same (event, user).
var ErrDuplicateRequest = errors.New("pending invitation request already exists")

// InvitationRequestStatus is the state of an invitation request. PENDING is
// the only non-terminal state.
type InvitationRequestStatus string

const (
	RequestPending  InvitationRequestStatus = "PENDING"
	RequestApproved InvitationRequestStatus = "APPROVED"
	RequestRejected InvitationRequestStatus = "REJECTED"
)

// EventInvitationRequest is a user-initiated ask for an invitation to an
// event, decided by the event's owner or staff. At most one PENDING request
// may exist per (event, user).
type EventInvitationRequest struct {
	ID      string                  `json:"id"`
	EventID string                  `json:"event_id"`
	UserID  string                  `json:"user_id"`
	Message string                  `json:"message,omitempty"`
	Status  InvitationRequestStatus `json:"status"`
	// DecidedBy records the staff/owner user who approved or rejected.
	DecidedBy *string    `json:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// InvitationRequestService runs the request/approve/reject workflow.
type InvitationRequestService interface {
	// CreateRequest files a pending request. Each rejection reason (requests
	// not accepted, deadline passed, already invited, duplicate pending
	// request) is a distinct ValidationError.
	CreateRequest(ctx context.Context, eventID, userID, message string) (*EventInvitationRequest, error)
	// Decide approves or rejects a pending request. Approval get-or-creates
	// the invitation in the same transaction; deciding an already-decided
	// request is a ValidationError. Decisions are terminal.
	Decide(ctx context.Context, requestID, deciderID string, approve bool, tierID *string) (*EventInvitationRequest, error)
}

// EventInvitationRequestRepository defines storage operations for invitation
// requests.
type EventInvitationRequestRepository interface {
	// Create inserts a pending request. Returns ErrDuplicateRequest when a
	// PENDING request for the same (event, user) already exists; the
	// pending-uniqueness is enforced by a partial unique index.
	Create(ctx context.Context, req *EventInvitationRequest) error
	GetByID(ctx context.Context, id string) (*EventInvitationRequest, error)
	GetPendingByEventAndUser(ctx context.Context, eventID, userID string) (*EventInvitationRequest, error)
	ListByEventID(ctx context.Context, eventID string, status *InvitationRequestStatus) ([]*EventInvitationRequest, error)
	// Decide transitions a PENDING request to APPROVED or REJECTED, recording
	// the decider. On approval it also get-or-creates the invitation, in the
	// same transaction. decided reports whether the request was still pending;
	// a request already decided leaves the row untouched and returns false.
	Decide(ctx context.Context, requestID string, status InvitationRequestStatus, decidedBy string, inv *EventInvitation) (decided bool, err error)
}
