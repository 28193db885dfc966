package domain

import "context"

// ReasonCode explains an eligibility denial.
type ReasonCode string

const (
	ReasonNotInvited           ReasonCode = "NOT_INVITED"
	ReasonNotAMember           ReasonCode = "NOT_A_MEMBER"
	ReasonEventNotOpen         ReasonCode = "EVENT_NOT_OPEN"
	ReasonRequiresTicket       ReasonCode = "REQUIRES_TICKET"
	ReasonQuestionnaireMissing ReasonCode = "QUESTIONNAIRE_MISSING"
	ReasonEventFull            ReasonCode = "EVENT_FULL"
	ReasonDeadlinePassed       ReasonCode = "DEADLINE_PASSED"
)

// NextStepCode tells the client what action could change a denial.
type NextStepCode string

const (
	NextStepNone                  NextStepCode = "NONE"
	NextStepPurchaseTicket        NextStepCode = "PURCHASE_TICKET"
	NextStepCompleteQuestionnaire NextStepCode = "COMPLETE_QUESTIONNAIRE"
	NextStepJoinWaitlist          NextStepCode = "JOIN_WAITLIST"
	NextStepRequestInvitation     NextStepCode = "REQUEST_INVITATION"
)

// EnrollmentIntent is the action the eligibility check is gating. An event
// that requires tickets blocks plain RSVPs but not ticket purchases.
type EnrollmentIntent string

const (
	IntentRSVP           EnrollmentIntent = "RSVP"
	IntentTicketPurchase EnrollmentIntent = "TICKET_PURCHASE"
)

// EligibilityResult is the outcome of an eligibility check. It is a value,
// never an error: denials carry a reason and, where one exists, the next step
// that could flip the answer.
type EligibilityResult struct {
	Allowed  bool         `json:"allowed"`
	Reason   ReasonCode   `json:"reason,omitempty"`
	NextStep NextStepCode `json:"next_step,omitempty"`
}

// Allow is the result for a permitted enrollment.
func Allow() EligibilityResult {
	return EligibilityResult{Allowed: true}
}

// Deny builds a denial with the given reason and next step.
func Deny(reason ReasonCode, next NextStepCode) EligibilityResult {
	return EligibilityResult{Allowed: false, Reason: reason, NextStep: next}
}

// EligibilityService decides whether a user may enroll in an event. Check is
// read-only, lock-free, and deterministic for fixed underlying data, so it is
// safe to call repeatedly and concurrently.
type EligibilityService interface {
	Check(ctx context.Context, userID, eventID string, intent EnrollmentIntent) (EligibilityResult, error)
}

// QuestionnaireRepository is the collaborator answering whether a user has a
// passing questionnaire submission for an event. Submission contents and
// evaluation live outside this core.
type QuestionnaireRepository interface {
	HasPassingSubmission(ctx context.Context, eventID, userID string) (bool, error)
}

// AttendeeCountRepository is the collaborator counting confirmed attendees
// for the capacity gate. The count must use the same attendance predicate as
// ticket quota validation (PaymentMethod.CountsTowardAttendance).
type AttendeeCountRepository interface {
	CountConfirmed(ctx context.Context, eventID string) (int, error)
}
