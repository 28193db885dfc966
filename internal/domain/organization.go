package domain

import (
	"context"
	"time"
)

// MemberStatus is the state of an organization membership.
type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberPaused    MemberStatus = "PAUSED"
	MemberCancelled MemberStatus = "CANCELLED"
	MemberBanned    MemberStatus = "BANNED"
)

// Organization owns events and memberships.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrganizationMember is a user's membership in an organization.
type OrganizationMember struct {
	OrganizationID string       `json:"organization_id"`
	UserID         string       `json:"user_id"`
	TierID         *string      `json:"tier_id,omitempty"`
	Status         MemberStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
}

// OrganizationRepository defines the interface for organization storage.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*Organization, error)
}

// MembershipRepository answers the membership and staff questions the
// eligibility check depends on. Implementations read only.
type MembershipRepository interface {
	// IsActiveMember reports whether the user has an ACTIVE membership in the
	// organization.
	IsActiveMember(ctx context.Context, orgID, userID string) (bool, error)
	// IsActiveStaff reports whether the user is an active staff member of the
	// organization. The organization owner is not implicitly staff; callers
	// check ownership separately via the Organization record.
	IsActiveStaff(ctx context.Context, orgID, userID string) (bool, error)
}
