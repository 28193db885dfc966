package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventgate/internal/domain"
)

type enrollmentService struct {
	eligibility    domain.EligibilityService
	eventRepo      domain.EventRepository
	rsvpRepo       domain.EventRSVPRepository
	dispatcher     domain.Dispatcher
	contextTimeout time.Duration
}

// NewEnrollmentService creates an EnrollmentService with the given
// collaborators.
func NewEnrollmentService(
	eligibility domain.EligibilityService,
	eventRepo domain.EventRepository,
	rsvpRepo domain.EventRSVPRepository,
	dispatcher domain.Dispatcher,
	timeout time.Duration,
) domain.EnrollmentService {
	return &enrollmentService{
		eligibility:    eligibility,
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *enrollmentService) RSVP(ctx context.Context, userID, eventID string, answer domain.RSVPAnswer) (*domain.EventRSVP, domain.EligibilityResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidRSVPAnswer(answer) {
		return nil, domain.EligibilityResult{}, domain.NewValidationError("invalid rsvp answer %q", answer)
	}

	// Withdrawing (NO) is always permitted; only attending answers are gated.
	if answer == domain.RSVPNo {
		if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.EligibilityResult{}, domain.ErrNotFound
			}
			return nil, domain.EligibilityResult{}, fmt.Errorf("get event: %w", err)
		}
	} else {
		result, err := s.eligibility.Check(ctx, userID, eventID, domain.IntentRSVP)
		if err != nil {
			return nil, domain.EligibilityResult{}, err
		}
		if !result.Allowed {
			return nil, result, nil
		}
	}

	now := time.Now()
	rsvp := &domain.EventRSVP{
		EventID:   eventID,
		UserID:    userID,
		Answer:    answer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.rsvpRepo.Upsert(ctx, rsvp); err != nil {
		return nil, domain.EligibilityResult{}, fmt.Errorf("upsert rsvp: %w", err)
	}

	switch answer {
	case domain.RSVPYes:
		s.dispatcher.Dispatch(ctx, newDispatchEvent(domain.DispatchRSVPConfirmed, eventID, userID, nil))
	case domain.RSVPNo:
		s.dispatcher.Dispatch(ctx, newDispatchEvent(domain.DispatchRSVPDeclined, eventID, userID, nil))
	}

	return rsvp, domain.Allow(), nil
}

func (s *enrollmentService) MyStatus(ctx context.Context, userID, eventID string) (*domain.EnrollmentStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	result, err := s.eligibility.Check(ctx, userID, eventID, domain.IntentRSVP)
	if err != nil {
		return nil, err
	}

	rsvp, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}

	return &domain.EnrollmentStatus{RSVP: rsvp, Eligibility: result}, nil
}

// newDispatchEvent builds a dispatch event for the enclosing operation.
func newDispatchEvent(t domain.DispatchEventType, eventID, userID string, context map[string]string) domain.DispatchEvent {
	return domain.DispatchEvent{
		ID:         uuid.NewString(),
		Type:       t,
		EventID:    eventID,
		UserID:     userID,
		Context:    context,
		OccurredAt: time.Now(),
	}
}
