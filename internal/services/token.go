package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventgate/internal/domain"
)

const defaultTokenTTL = 60 * time.Minute

type eventTokenService struct {
	tokenRepo      domain.EventTokenRepository
	eventRepo      domain.EventRepository
	orgRepo        domain.OrganizationRepository
	membershipRepo domain.MembershipRepository
	codec          domain.ShareCodeCodec
	dispatcher     domain.Dispatcher
	defaultTTL     time.Duration
	contextTimeout time.Duration
}

// NewEventTokenService creates an EventTokenService. defaultTTL applies to
// tokens created without an explicit duration; zero means 60 minutes.
func NewEventTokenService(
	tokenRepo domain.EventTokenRepository,
	eventRepo domain.EventRepository,
	orgRepo domain.OrganizationRepository,
	membershipRepo domain.MembershipRepository,
	codec domain.ShareCodeCodec,
	dispatcher domain.Dispatcher,
	defaultTTL time.Duration,
	timeout time.Duration,
) domain.EventTokenService {
	if defaultTTL <= 0 {
		defaultTTL = defaultTokenTTL
	}
	return &eventTokenService{
		tokenRepo:      tokenRepo,
		eventRepo:      eventRepo,
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		codec:          codec,
		dispatcher:     dispatcher,
		defaultTTL:     defaultTTL,
		contextTimeout: timeout,
	}
}

func (s *eventTokenService) Create(ctx context.Context, params domain.CreateTokenParams) (*domain.EventToken, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, params.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get event: %w", err)
	}

	// Only the organization owner or active staff may issue tokens.
	org, err := s.orgRepo.GetByID(ctx, event.OrganizationID)
	if err != nil {
		return nil, "", fmt.Errorf("get organization: %w", err)
	}
	if org.OwnerID != params.IssuerID {
		staff, err := s.membershipRepo.IsActiveStaff(ctx, org.ID, params.IssuerID)
		if err != nil {
			return nil, "", fmt.Errorf("check staff: %w", err)
		}
		if !staff {
			return nil, "", domain.ErrForbidden
		}
	}

	if params.MaxUses < 0 {
		return nil, "", domain.NewValidationError("max uses must not be negative")
	}

	dur := params.Duration
	if dur <= 0 && params.DurationMinutes > 0 {
		dur = time.Duration(params.DurationMinutes) * time.Minute
	}
	if dur <= 0 {
		dur = s.defaultTTL
	}

	now := time.Now()
	expiresAt := now.Add(dur)
	token := &domain.EventToken{
		ID:                uuid.NewString(),
		EventID:           params.EventID,
		IssuedBy:          params.IssuerID,
		ExpiresAt:         &expiresAt,
		MaxUses:           params.MaxUses,
		GrantsInvitation:  params.GrantsInvitation,
		TierID:            params.TierID,
		InvitationPayload: params.Payload,
		CreatedAt:         now,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, "", fmt.Errorf("create event token: %w", err)
	}

	code, err := s.codec.Issue(token.ID, token.ExpiresAt)
	if err != nil {
		return nil, "", fmt.Errorf("issue share code: %w", err)
	}
	return token, code, nil
}

func (s *eventTokenService) Get(ctx context.Context, tokenID string) (*domain.EventToken, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.tokenRepo.GetByID(ctx, tokenID)
}

// Claim redeems a token for the user. Every "token is no good" case returns
// (nil, nil); only infrastructure failures surface as errors.
func (s *eventTokenService) Claim(ctx context.Context, userID, tokenID string) (*domain.EventInvitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	token, err := s.tokenRepo.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event token: %w", err)
	}
	if !token.GrantsInvitation || token.Exhausted() {
		return nil, nil
	}

	inv := &domain.EventInvitation{
		EventID: token.EventID,
		UserID:  userID,
		TierID:  token.TierID,
	}
	if p := token.InvitationPayload; p != nil {
		inv.OverridesMaxAttendees = p.OverridesMaxAttendees
		inv.WaivesQuestionnaire = p.WaivesQuestionnaire
	}

	out, created, err := s.tokenRepo.ClaimInvitation(ctx, token, inv)
	if err != nil {
		return nil, fmt.Errorf("claim invitation: %w", err)
	}
	if out == nil {
		// Exhausted by a concurrent claim between the read and the guarded
		// increment.
		return nil, nil
	}
	if created {
		s.dispatcher.Dispatch(ctx, newDispatchEvent(domain.DispatchInvitationGranted, token.EventID, userID, map[string]string{
			"token_id": token.ID,
		}))
	}
	return out, nil
}

func (s *eventTokenService) ClaimByCode(ctx context.Context, userID, code string) (*domain.EventInvitation, error) {
	tokenID, err := s.codec.Verify(code)
	if err != nil {
		// A bad share code is indistinguishable from an unknown token.
		return nil, nil
	}
	return s.Claim(ctx, userID, tokenID)
}
