package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"eventgate/internal/domain"
)

func key(eventID, userID string) string {
	return eventID + ":" + userID
}

type mockEventRepository struct {
	events map[string]*domain.Event
	err    error
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

type mockOrganizationRepository struct {
	orgs map[string]*domain.Organization
	err  error
}

func (m *mockOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	if m.err != nil {
		return nil, m.err
	}
	org, ok := m.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

type mockMembershipRepository struct {
	members map[string]bool // org:user
	staff   map[string]bool // org:user
	err     error
}

func (m *mockMembershipRepository) IsActiveMember(ctx context.Context, orgID, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.members[key(orgID, userID)], nil
}

func (m *mockMembershipRepository) IsActiveStaff(ctx context.Context, orgID, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.staff[key(orgID, userID)], nil
}

type mockInvitationRepository struct {
	mu   sync.Mutex
	invs map[string]*domain.EventInvitation // event:user
	err  error
}

func (m *mockInvitationRepository) GetOrCreate(ctx context.Context, inv *domain.EventInvitation) (*domain.EventInvitation, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.invs == nil {
		m.invs = map[string]*domain.EventInvitation{}
	}
	k := key(inv.EventID, inv.UserID)
	if existing, ok := m.invs[k]; ok {
		return existing, false, nil
	}
	inv.ID = "inv-" + k
	m.invs[k] = inv
	return inv, true, nil
}

func (m *mockInvitationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventInvitation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invs[key(eventID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (m *mockInvitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventInvitation, error) {
	return nil, nil
}

type mockQuestionnaireRepository struct {
	passing map[string]bool // event:user
	err     error
}

func (m *mockQuestionnaireRepository) HasPassingSubmission(ctx context.Context, eventID, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.passing[key(eventID, userID)], nil
}

type mockAttendeeCountRepository struct {
	counts map[string]int
	err    error
}

func (m *mockAttendeeCountRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[eventID], nil
}

type mockEventRSVPRepository struct {
	rsvps map[string]*domain.EventRSVP // event:user
	err   error
}

func (m *mockEventRSVPRepository) Upsert(ctx context.Context, rsvp *domain.EventRSVP) error {
	if m.err != nil {
		return m.err
	}
	if m.rsvps == nil {
		m.rsvps = map[string]*domain.EventRSVP{}
	}
	k := key(rsvp.EventID, rsvp.UserID)
	if existing, ok := m.rsvps[k]; ok {
		rsvp.ID = existing.ID
		rsvp.CreatedAt = existing.CreatedAt
	} else {
		rsvp.ID = "rsvp-" + k
	}
	m.rsvps[k] = rsvp
	return nil
}

func (m *mockEventRSVPRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRSVP, error) {
	if m.err != nil {
		return nil, m.err
	}
	rsvp, ok := m.rsvps[key(eventID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rsvp, nil
}

func (m *mockEventRSVPRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRSVP, error) {
	return nil, nil
}

type mockTicketTierRepository struct {
	tiers map[string]*domain.TicketTier
	err   error
}

func (m *mockTicketTierRepository) Create(ctx context.Context, tier *domain.TicketTier) error {
	return nil
}

func (m *mockTicketTierRepository) GetByID(ctx context.Context, id string) (*domain.TicketTier, error) {
	if m.err != nil {
		return nil, m.err
	}
	tier, ok := m.tiers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tier, nil
}

func (m *mockTicketTierRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.TicketTier, error) {
	return nil, nil
}

type mockTicketRepository struct {
	heldCounts     map[string]int // event:user
	countErr       error
	createBatchErr error
	batches        [][]*domain.Ticket
}

func (m *mockTicketRepository) CountHeldByUser(ctx context.Context, eventID, userID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.heldCounts[key(eventID, userID)], nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTicketRepository) ListByEventAndUser(ctx context.Context, eventID, userID string) ([]*domain.Ticket, error) {
	return nil, nil
}

func (m *mockTicketRepository) CreateBatch(ctx context.Context, tier *domain.TicketTier, tickets []*domain.Ticket) error {
	if m.createBatchErr != nil {
		return m.createBatchErr
	}
	for i, t := range tickets {
		t.ID = fmt.Sprintf("ticket-%d-%d", len(m.batches), i)
	}
	m.batches = append(m.batches, tickets)
	return nil
}

func (m *mockTicketRepository) Cancel(ctx context.Context, id string) error {
	return nil
}

type mockEventTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*domain.EventToken
	invs   *mockInvitationRepository
	err    error
}

func (m *mockEventTokenRepository) Create(ctx context.Context, token *domain.EventToken) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = map[string]*domain.EventToken{}
	}
	m.tokens[token.ID] = token
	return nil
}

func (m *mockEventTokenRepository) GetByID(ctx context.Context, id string) (*domain.EventToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[id]
	if !ok || token.Expired(time.Now()) {
		return nil, domain.ErrNotFound
	}
	copied := *token
	return &copied, nil
}

// ClaimInvitation mirrors the postgres transaction: the use counter advances
// only when a new invitation is stored, and an exhausted token yields nil.
func (m *mockEventTokenRepository) ClaimInvitation(ctx context.Context, token *domain.EventToken, inv *domain.EventInvitation) (*domain.EventInvitation, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	out, created, err := m.invs.GetOrCreate(ctx, inv)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return out, false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.tokens[token.ID]
	if stored.Exhausted() {
		m.invs.mu.Lock()
		delete(m.invs.invs, key(inv.EventID, inv.UserID))
		m.invs.mu.Unlock()
		return nil, false, nil
	}
	stored.Uses++
	return out, true, nil
}

type mockRequestRepository struct {
	requests  map[string]*domain.EventInvitationRequest
	pending   map[string]*domain.EventInvitationRequest // event:user
	createErr error
	decideErr error
	decided   map[string]domain.InvitationRequestStatus
	invRepo   *mockInvitationRepository
	nextID    int
}

func (m *mockRequestRepository) Create(ctx context.Context, req *domain.EventInvitationRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	k := key(req.EventID, req.UserID)
	if m.pending == nil {
		m.pending = map[string]*domain.EventInvitationRequest{}
	}
	if _, ok := m.pending[k]; ok {
		return domain.ErrDuplicateRequest
	}
	m.nextID++
	req.ID = fmt.Sprintf("req-%d", m.nextID)
	m.pending[k] = req
	if m.requests == nil {
		m.requests = map[string]*domain.EventInvitationRequest{}
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id string) (*domain.EventInvitationRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (m *mockRequestRepository) GetPendingByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventInvitationRequest, error) {
	req, ok := m.pending[key(eventID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (m *mockRequestRepository) ListByEventID(ctx context.Context, eventID string, status *domain.InvitationRequestStatus) ([]*domain.EventInvitationRequest, error) {
	return nil, nil
}

func (m *mockRequestRepository) Decide(ctx context.Context, requestID string, status domain.InvitationRequestStatus, decidedBy string, inv *domain.EventInvitation) (bool, error) {
	if m.decideErr != nil {
		return false, m.decideErr
	}
	req, ok := m.requests[requestID]
	if !ok || req.Status != domain.RequestPending {
		return false, nil
	}
	req.Status = status
	req.DecidedBy = &decidedBy
	delete(m.pending, key(req.EventID, req.UserID))
	if m.decided == nil {
		m.decided = map[string]domain.InvitationRequestStatus{}
	}
	m.decided[requestID] = status
	if inv != nil && m.invRepo != nil {
		if _, _, err := m.invRepo.GetOrCreate(ctx, inv); err != nil {
			return false, err
		}
	}
	return true, nil
}

type mockShareCodeCodec struct{}

func (m *mockShareCodeCodec) Issue(tokenID string, expiresAt *time.Time) (string, error) {
	return "code:" + tokenID, nil
}

func (m *mockShareCodeCodec) Verify(code string) (string, error) {
	if !strings.HasPrefix(code, "code:") {
		return "", fmt.Errorf("invalid share code")
	}
	return strings.TrimPrefix(code, "code:"), nil
}

// recordingDispatcher captures dispatched events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.DispatchEvent
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, events ...domain.DispatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events...)
}

func (d *recordingDispatcher) types() []domain.DispatchEventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []domain.DispatchEventType
	for _, ev := range d.events {
		out = append(out, ev.Type)
	}
	return out
}
