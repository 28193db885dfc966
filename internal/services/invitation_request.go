package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventgate/internal/domain"
)

type invitationRequestService struct {
	eventRepo      domain.EventRepository
	orgRepo        domain.OrganizationRepository
	membershipRepo domain.MembershipRepository
	invitationRepo domain.EventInvitationRepository
	requestRepo    domain.EventInvitationRequestRepository
	dispatcher     domain.Dispatcher
	contextTimeout time.Duration
}

// NewInvitationRequestService creates an InvitationRequestService with the
// given collaborators.
func NewInvitationRequestService(
	eventRepo domain.EventRepository,
	orgRepo domain.OrganizationRepository,
	membershipRepo domain.MembershipRepository,
	invitationRepo domain.EventInvitationRepository,
	requestRepo domain.EventInvitationRequestRepository,
	dispatcher domain.Dispatcher,
	timeout time.Duration,
) domain.InvitationRequestService {
	return &invitationRequestService{
		eventRepo:      eventRepo,
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		requestRepo:    requestRepo,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *invitationRequestService) CreateRequest(ctx context.Context, eventID, userID, message string) (*domain.EventInvitationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if !event.AcceptInvitationRequests {
		return nil, domain.NewValidationError("this event does not accept invitation requests")
	}
	if event.DeadlinePassed(time.Now()) {
		return nil, domain.NewValidationError("the application deadline for this event has passed")
	}

	if _, err := s.invitationRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, domain.NewValidationError("you already have an invitation to this event")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	req := &domain.EventInvitationRequest{
		EventID:   eventID,
		UserID:    userID,
		Message:   message,
		Status:    domain.RequestPending,
		CreatedAt: time.Now(),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrDuplicateRequest) {
			return nil, domain.NewValidationError("you already have a pending invitation request for this event")
		}
		return nil, fmt.Errorf("create invitation request: %w", err)
	}

	s.dispatcher.Dispatch(ctx, newDispatchEvent(domain.DispatchRequestReceived, eventID, userID, nil))
	return req, nil
}

func (s *invitationRequestService) Decide(ctx context.Context, requestID, deciderID string, approve bool, tierID *string) (*domain.EventInvitationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation request: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	org, err := s.orgRepo.GetByID(ctx, event.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org.OwnerID != deciderID {
		staff, err := s.membershipRepo.IsActiveStaff(ctx, org.ID, deciderID)
		if err != nil {
			return nil, fmt.Errorf("check staff: %w", err)
		}
		if !staff {
			return nil, domain.ErrForbidden
		}
	}

	if req.Status != domain.RequestPending {
		return nil, domain.NewValidationError("invitation request has already been decided")
	}

	status := domain.RequestRejected
	eventType := domain.DispatchRequestRejected
	var inv *domain.EventInvitation
	if approve {
		status = domain.RequestApproved
		eventType = domain.DispatchRequestApproved
		inv = &domain.EventInvitation{
			EventID: req.EventID,
			UserID:  req.UserID,
			TierID:  tierID,
		}
	}

	decided, err := s.requestRepo.Decide(ctx, req.ID, status, deciderID, inv)
	if err != nil {
		return nil, fmt.Errorf("decide invitation request: %w", err)
	}
	if !decided {
		// Another decider got there first.
		return nil, domain.NewValidationError("invitation request has already been decided")
	}

	now := time.Now()
	req.Status = status
	req.DecidedBy = &deciderID
	req.DecidedAt = &now

	s.dispatcher.Dispatch(ctx, newDispatchEvent(eventType, req.EventID, req.UserID, map[string]string{
		"request_id": req.ID,
	}))
	return req, nil
}
