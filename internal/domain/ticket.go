package domain

import (
	"context"
	"time"
)

// PaymentMethod is how a ticket tier is paid for.
type PaymentMethod string

const (
	PaymentOnline    PaymentMethod = "ONLINE"
	PaymentOffline   PaymentMethod = "OFFLINE"
	PaymentAtTheDoor PaymentMethod = "AT_THE_DOOR"
	PaymentFree      PaymentMethod = "FREE"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketPending   TicketStatus = "PENDING"
	TicketActive    TicketStatus = "ACTIVE"
	TicketCheckedIn TicketStatus = "CHECKED_IN"
	TicketCancelled TicketStatus = "CANCELLED"
)

// TicketTier is a priced category of ticket within an event.
type TicketTier struct {
	ID            string        `json:"id"`
	EventID       string        `json:"event_id"`
	Name          string        `json:"name"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PriceCents    int64         `json:"price_cents"`
	// Capacity caps tickets that count toward attendance for this tier. Nil
	// means unlimited.
	Capacity  *int      `json:"capacity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitialTicketStatus is the status a freshly issued ticket starts in for the
// tier's payment method. Online tickets stay pending until payment settles
// out of band; free tickets are active immediately.
func (t *TicketTier) InitialTicketStatus() TicketStatus {
	switch t.PaymentMethod {
	case PaymentFree:
		return TicketActive
	case PaymentOnline, PaymentOffline, PaymentAtTheDoor:
		return TicketPending
	}
	return TicketPending
}

// CountsTowardAttendance is the single predicate deciding whether a ticket in
// the given status occupies a seat. It backs the per-user quota, the tier
// capacity check, and the confirmed-attendee count; keep all three on this
// one function so they cannot drift. Online tickets count once paid (active)
// and stay counted through check-in; every other method counts from the
// moment the ticket is issued.
func (m PaymentMethod) CountsTowardAttendance(s TicketStatus) bool {
	switch m {
	case PaymentOnline:
		return s == TicketActive || s == TicketCheckedIn
	case PaymentOffline, PaymentAtTheDoor, PaymentFree:
		return s == TicketPending || s == TicketActive || s == TicketCheckedIn
	}
	return false
}

// Ticket is one admission to an event. A ticket belongs to a user or, for
// anonymized/guest admissions, carries only a guest name.
type Ticket struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	TierID    string       `json:"tier_id"`
	UserID    string       `json:"user_id,omitempty"`
	GuestName string       `json:"guest_name,omitempty"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PurchaseRequest describes one batch ticket purchase.
type PurchaseRequest struct {
	EventID string
	TierID  string
	UserID  string
	Count   int
	// GuestNames optionally names each admission beyond the purchaser's own;
	// when set its length must equal Count.
	GuestNames []string
}

// BatchTicketService validates and executes batch ticket purchases.
type BatchTicketService interface {
	// Purchase issues req.Count tickets in one transaction. On an eligibility
	// denial it returns (nil, result, nil). Quota violations are
	// ValidationErrors; losing a capacity race is a ConflictError.
	Purchase(ctx context.Context, req PurchaseRequest) ([]*Ticket, EligibilityResult, error)
}

// TicketTierRepository defines storage operations for ticket tiers.
type TicketTierRepository interface {
	Create(ctx context.Context, tier *TicketTier) error
	GetByID(ctx context.Context, id string) (*TicketTier, error)
	ListByEventID(ctx context.Context, eventID string) ([]*TicketTier, error)
}

// TicketRepository defines storage operations for tickets.
type TicketRepository interface {
	// CountHeldByUser counts the user's tickets at the event that currently
	// count toward attendance (CountsTowardAttendance on each ticket's tier).
	CountHeldByUser(ctx context.Context, eventID, userID string) (int, error)
	GetByID(ctx context.Context, id string) (*Ticket, error)
	ListByEventAndUser(ctx context.Context, eventID, userID string) ([]*Ticket, error)
	// CreateBatch inserts the tickets in one transaction, holding an exclusive
	// row lock on the tier while re-checking its capacity. Returns a
	// ConflictError when the batch no longer fits.
	CreateBatch(ctx context.Context, tier *TicketTier, tickets []*Ticket) error
	// Cancel marks the ticket cancelled. Cancelled tickets stop counting
	// toward quota, capacity, and attendance.
	Cancel(ctx context.Context, id string) error
}
