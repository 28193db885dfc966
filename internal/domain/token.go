package domain

import (
	"context"
	"time"
)

// EventToken is a time-boxed, use-limited capability credential for an event.
// Claiming a token that grants invitations produces an EventInvitation for
// the claiming user.
type EventToken struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	// IssuedBy is the owner/staff user who created the token.
	IssuedBy string `json:"issued_by"`
	// ExpiresAt bounds the token's lifetime. Nil means it never expires.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// MaxUses bounds successful claims. Zero means unlimited.
	MaxUses int `json:"max_uses"`
	// Uses is a monotonic counter of successful claims. It is only ever
	// advanced by an atomic in-place update in the storage layer.
	Uses int `json:"uses"`

	GrantsInvitation bool `json:"grants_invitation"`
	// TierID, when set, is copied onto invitations created from this token.
	TierID *string `json:"tier_id,omitempty"`
	// InvitationPayload is an opaque bag merged into created invitations
	// (override flags and any future invitation fields).
	InvitationPayload *InvitationPayload `json:"invitation_payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// InvitationPayload carries invitation fields preset on an event token.
type InvitationPayload struct {
	OverridesMaxAttendees bool `json:"overrides_max_attendees"`
	WaivesQuestionnaire   bool `json:"waives_questionnaire"`
}

// Exhausted reports whether the token's use limit has been reached.
func (t *EventToken) Exhausted() bool {
	return t.MaxUses > 0 && t.Uses >= t.MaxUses
}

// Expired reports whether the token is past its expiry at the given time.
func (t *EventToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// ShareCodeCodec signs token IDs into compact share codes and verifies them.
// A share code can be claimed in place of the raw token ID, so the ID itself
// never has to leave the issuing organization's tooling.
type ShareCodeCodec interface {
	Issue(tokenID string, expiresAt *time.Time) (string, error)
	// Verify returns the embedded token ID, or an error for a tampered or
	// expired code.
	Verify(code string) (tokenID string, err error)
}

// CreateTokenParams are the inputs for issuing an event token. Exactly one of
// Duration or DurationMinutes is normally set; when both are zero the
// configured default lifetime applies.
type CreateTokenParams struct {
	EventID          string
	IssuerID         string
	Duration         time.Duration
	DurationMinutes  int
	MaxUses          int
	GrantsInvitation bool
	TierID           *string
	Payload          *InvitationPayload
}

// EventTokenService issues and redeems event tokens.
type EventTokenService interface {
	// Create issues a token and returns it along with a signed share code that
	// can be claimed in place of the raw token ID.
	Create(ctx context.Context, params CreateTokenParams) (*EventToken, string, error)
	// Get returns ErrNotFound for unknown or expired tokens.
	Get(ctx context.Context, tokenID string) (*EventToken, error)
	// Claim redeems the token for the user. An invalid, expired, exhausted, or
	// non-inviting token yields (nil, nil): no invitation, no error.
	Claim(ctx context.Context, userID, tokenID string) (*EventInvitation, error)
	// ClaimByCode verifies a share code and claims the embedded token. A code
	// that fails verification yields (nil, nil), like an unknown token.
	ClaimByCode(ctx context.Context, userID, code string) (*EventInvitation, error)
}

// EventTokenRepository defines storage operations for event tokens.
type EventTokenRepository interface {
	Create(ctx context.Context, token *EventToken) error
	// GetByID returns ErrNotFound for unknown or expired tokens.
	GetByID(ctx context.Context, id string) (*EventToken, error)
	// ClaimInvitation executes the claim transaction: get-or-create the
	// invitation, and if a new one was created, advance the token's use
	// counter with an atomic `uses = uses + 1` update guarded by the use
	// limit. When the guard fails (the token was exhausted by a concurrent
	// claim) the transaction rolls back and (nil, false, nil) is returned.
	ClaimInvitation(ctx context.Context, token *EventToken, inv *EventInvitation) (out *EventInvitation, created bool, err error)
}
