package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"eventgate/internal/domain"
)

type batchTicketService struct {
	eligibility    domain.EligibilityService
	eventRepo      domain.EventRepository
	tierRepo       domain.TicketTierRepository
	ticketRepo     domain.TicketRepository
	dispatcher     domain.Dispatcher
	contextTimeout time.Duration
}

// NewBatchTicketService creates a BatchTicketService with the given
// collaborators.
func NewBatchTicketService(
	eligibility domain.EligibilityService,
	eventRepo domain.EventRepository,
	tierRepo domain.TicketTierRepository,
	ticketRepo domain.TicketRepository,
	dispatcher domain.Dispatcher,
	timeout time.Duration,
) domain.BatchTicketService {
	return &batchTicketService{
		eligibility:    eligibility,
		eventRepo:      eventRepo,
		tierRepo:       tierRepo,
		ticketRepo:     ticketRepo,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *batchTicketService) Purchase(ctx context.Context, req domain.PurchaseRequest) ([]*domain.Ticket, domain.EligibilityResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if req.Count < 1 {
		return nil, domain.EligibilityResult{}, domain.NewValidationError("ticket count must be at least 1")
	}
	if len(req.GuestNames) > 0 && len(req.GuestNames) != req.Count {
		return nil, domain.EligibilityResult{}, domain.NewValidationError("guest names must match the ticket count")
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.EligibilityResult{}, domain.ErrNotFound
		}
		return nil, domain.EligibilityResult{}, fmt.Errorf("get event: %w", err)
	}

	tier, err := s.tierRepo.GetByID(ctx, req.TierID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.EligibilityResult{}, domain.ErrNotFound
		}
		return nil, domain.EligibilityResult{}, fmt.Errorf("get ticket tier: %w", err)
	}
	if tier.EventID != event.ID {
		return nil, domain.EligibilityResult{}, domain.ErrNotFound
	}

	result, err := s.eligibility.Check(ctx, req.UserID, req.EventID, domain.IntentTicketPurchase)
	if err != nil {
		return nil, domain.EligibilityResult{}, err
	}
	if !result.Allowed {
		return nil, result, nil
	}

	if err := s.validateBatchSize(ctx, event, req.UserID, req.Count); err != nil {
		return nil, domain.EligibilityResult{}, err
	}

	now := time.Now()
	status := tier.InitialTicketStatus()
	tickets := make([]*domain.Ticket, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		t := &domain.Ticket{
			EventID:   event.ID,
			TierID:    tier.ID,
			UserID:    req.UserID,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if len(req.GuestNames) > 0 {
			t.GuestName = req.GuestNames[i]
		}
		tickets = append(tickets, t)
	}

	// The capacity re-check happens inside CreateBatch under a tier row lock;
	// a lost race comes back as a ConflictError and passes through unchanged.
	if err := s.ticketRepo.CreateBatch(ctx, tier, tickets); err != nil {
		return nil, domain.EligibilityResult{}, err
	}

	s.dispatcher.Dispatch(ctx, newDispatchEvent(domain.DispatchTicketsIssued, event.ID, req.UserID, map[string]string{
		"tier_id": tier.ID,
		"count":   strconv.Itoa(req.Count),
	}))

	return tickets, domain.Allow(), nil
}

// validateBatchSize enforces the per-user ticket cap. The two failure modes
// carry distinct messages so clients can tell "already at the cap" apart from
// "asking for too many".
func (s *batchTicketService) validateBatchSize(ctx context.Context, event *domain.Event, userID string, requested int) error {
	if event.MaxTicketsPerUser == nil {
		return nil
	}
	limit := *event.MaxTicketsPerUser

	existing, err := s.ticketRepo.CountHeldByUser(ctx, event.ID, userID)
	if err != nil {
		return fmt.Errorf("count held tickets: %w", err)
	}
	if existing+requested <= limit {
		return nil
	}
	if existing >= limit {
		return domain.NewValidationError("you have reached the maximum of %d tickets for this event", limit)
	}
	return domain.NewValidationError("you can only purchase %d more tickets for this event", limit-existing)
}
