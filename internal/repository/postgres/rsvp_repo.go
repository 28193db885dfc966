package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgate/internal/domain"
)

type eventRSVPRepository struct {
	DB *sql.DB
}

func NewEventRSVPRepository(db *sql.DB) domain.EventRSVPRepository {
	return &eventRSVPRepository{
		DB: db,
	}
}

func (r *eventRSVPRepository) Upsert(ctx context.Context, rsvp *domain.EventRSVP) error {
	query := `
		INSERT INTO event_rsvps (event_id, user_id, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET answer = EXCLUDED.answer, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		rsvp.EventID, rsvp.UserID, rsvp.Answer, rsvp.CreatedAt, rsvp.UpdatedAt,
	).Scan(&rsvp.ID, &rsvp.CreatedAt)
}

func (r *eventRSVPRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRSVP, error) {
	query := `
		SELECT id, event_id, user_id, answer, created_at, updated_at
		FROM event_rsvps
		WHERE event_id = $1 AND user_id = $2
	`
	rsvp := &domain.EventRSVP{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Answer, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *eventRSVPRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRSVP, error) {
	query := `
		SELECT id, event_id, user_id, answer, created_at, updated_at
		FROM event_rsvps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []*domain.EventRSVP
	for rows.Next() {
		rsvp := &domain.EventRSVP{}
		if err := rows.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Answer, &rsvp.CreatedAt, &rsvp.UpdatedAt); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []*domain.EventRSVP{}
	}
	return rsvps, nil
}
