package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventgate/internal/domain"
)

type eligibilityService struct {
	eventRepo         domain.EventRepository
	orgRepo           domain.OrganizationRepository
	membershipRepo    domain.MembershipRepository
	invitationRepo    domain.EventInvitationRepository
	questionnaireRepo domain.QuestionnaireRepository
	attendeeCountRepo domain.AttendeeCountRepository
	contextTimeout    time.Duration
}

// NewEligibilityService creates an EligibilityService with the given
// repositories. The service only reads; it never writes or takes locks.
func NewEligibilityService(
	eventRepo domain.EventRepository,
	orgRepo domain.OrganizationRepository,
	membershipRepo domain.MembershipRepository,
	invitationRepo domain.EventInvitationRepository,
	questionnaireRepo domain.QuestionnaireRepository,
	attendeeCountRepo domain.AttendeeCountRepository,
	timeout time.Duration,
) domain.EligibilityService {
	return &eligibilityService{
		eventRepo:         eventRepo,
		orgRepo:           orgRepo,
		membershipRepo:    membershipRepo,
		invitationRepo:    invitationRepo,
		questionnaireRepo: questionnaireRepo,
		attendeeCountRepo: attendeeCountRepo,
		contextTimeout:    timeout,
	}
}

// Check runs the eligibility gates in order; the first failing gate decides
// the result. Gates that cannot change the outcome are never evaluated.
func (s *eligibilityService) Check(ctx context.Context, userID, eventID string, intent domain.EnrollmentIntent) (domain.EligibilityResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EligibilityResult{}, domain.ErrNotFound
		}
		return domain.EligibilityResult{}, fmt.Errorf("get event: %w", err)
	}

	org, err := s.orgRepo.GetByID(ctx, event.OrganizationID)
	if err != nil {
		return domain.EligibilityResult{}, fmt.Errorf("get organization: %w", err)
	}

	// Owner and active staff bypass every other gate, invitations included.
	if org.OwnerID == userID {
		return domain.Allow(), nil
	}
	staff, err := s.membershipRepo.IsActiveStaff(ctx, org.ID, userID)
	if err != nil {
		return domain.EligibilityResult{}, fmt.Errorf("check staff: %w", err)
	}
	if staff {
		return domain.Allow(), nil
	}

	inv, err := s.invitationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.EligibilityResult{}, fmt.Errorf("get invitation: %w", err)
	}

	if !event.Enrollable() {
		return domain.Deny(domain.ReasonEventNotOpen, domain.NextStepNone), nil
	}

	// Visibility gate. An invitation satisfies it regardless of membership.
	if inv == nil {
		switch event.Visibility {
		case domain.VisibilityPublic:
		case domain.VisibilityPrivate:
			next := domain.NextStepNone
			if event.AcceptInvitationRequests {
				next = domain.NextStepRequestInvitation
			}
			return domain.Deny(domain.ReasonNotInvited, next), nil
		case domain.VisibilityMembersOnly:
			member, err := s.membershipRepo.IsActiveMember(ctx, org.ID, userID)
			if err != nil {
				return domain.EligibilityResult{}, fmt.Errorf("check membership: %w", err)
			}
			if !member {
				return domain.Deny(domain.ReasonNotAMember, domain.NextStepNone), nil
			}
		}
	}

	// RSVP alone is not enough for ticketed events.
	if event.RequiresTicket && intent == domain.IntentRSVP {
		return domain.Deny(domain.ReasonRequiresTicket, domain.NextStepPurchaseTicket), nil
	}

	if event.QuestionnaireRequired && (inv == nil || !inv.WaivesQuestionnaire) {
		passed, err := s.questionnaireRepo.HasPassingSubmission(ctx, eventID, userID)
		if err != nil {
			return domain.EligibilityResult{}, fmt.Errorf("check questionnaire submission: %w", err)
		}
		if !passed {
			return domain.Deny(domain.ReasonQuestionnaireMissing, domain.NextStepCompleteQuestionnaire), nil
		}
	}

	if event.MaxAttendees != nil && (inv == nil || !inv.OverridesMaxAttendees) {
		count, err := s.attendeeCountRepo.CountConfirmed(ctx, eventID)
		if err != nil {
			return domain.EligibilityResult{}, fmt.Errorf("count confirmed attendees: %w", err)
		}
		if count >= *event.MaxAttendees {
			next := domain.NextStepNone
			if event.WaitlistEnabled {
				next = domain.NextStepJoinWaitlist
			}
			return domain.Deny(domain.ReasonEventFull, next), nil
		}
	}

	if event.DeadlinePassed(time.Now()) {
		return domain.Deny(domain.ReasonDeadlinePassed, domain.NextStepNone), nil
	}

	return domain.Allow(), nil
}
