package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgate/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (
			organization_id, name, visibility, status, requires_ticket,
			max_attendees, max_tickets_per_user, accept_invitation_requests,
			waitlist_enabled, questionnaire_required, apply_deadline,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.OrganizationID, e.Name, e.Visibility, e.Status, e.RequiresTicket,
		e.MaxAttendees, e.MaxTicketsPerUser, e.AcceptInvitationRequests,
		e.WaitlistEnabled, e.QuestionnaireRequired, e.ApplyDeadline,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, organization_id, name, visibility, status, requires_ticket,
		       max_attendees, max_tickets_per_user, accept_invitation_requests,
		       waitlist_enabled, questionnaire_required, apply_deadline,
		       created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var maxAttendees, maxTickets sql.NullInt64
	var deadline sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.OrganizationID, &e.Name, &e.Visibility, &e.Status, &e.RequiresTicket,
		&maxAttendees, &maxTickets, &e.AcceptInvitationRequests,
		&e.WaitlistEnabled, &e.QuestionnaireRequired, &deadline,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if maxAttendees.Valid {
		n := int(maxAttendees.Int64)
		e.MaxAttendees = &n
	}
	if maxTickets.Valid {
		n := int(maxTickets.Int64)
		e.MaxTicketsPerUser = &n
	}
	if deadline.Valid {
		e.ApplyDeadline = &deadline.Time
	}
	return e, nil
}
