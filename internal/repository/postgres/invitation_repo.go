package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgate/internal/domain"
)

type eventInvitationRepository struct {
	DB *sql.DB
}

func NewEventInvitationRepository(db *sql.DB) domain.EventInvitationRepository {
	return &eventInvitationRepository{
		DB: db,
	}
}

// GetOrCreate relies on the (event_id, user_id) unique index: the insert does
// nothing on conflict, and the fallback select returns the existing row.
func (r *eventInvitationRepository) GetOrCreate(ctx context.Context, inv *domain.EventInvitation) (*domain.EventInvitation, bool, error) {
	insertQuery := `
		INSERT INTO event_invitations (event_id, user_id, tier_id, overrides_max_attendees, waives_questionnaire, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, insertQuery,
		inv.EventID, inv.UserID, inv.TierID, inv.OverridesMaxAttendees, inv.WaivesQuestionnaire, inv.CreatedAt,
	).Scan(&inv.ID)
	if err == nil {
		return inv, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetByEventAndUser(ctx, inv.EventID, inv.UserID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *eventInvitationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventInvitation, error) {
	query := `
		SELECT id, event_id, user_id, tier_id, overrides_max_attendees, waives_questionnaire, created_at
		FROM event_invitations
		WHERE event_id = $1 AND user_id = $2
	`
	inv := &domain.EventInvitation{}
	var tierID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(
		&inv.ID, &inv.EventID, &inv.UserID, &tierID,
		&inv.OverridesMaxAttendees, &inv.WaivesQuestionnaire, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if tierID.Valid {
		inv.TierID = &tierID.String
	}
	return inv, nil
}

func (r *eventInvitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventInvitation, error) {
	query := `
		SELECT id, event_id, user_id, tier_id, overrides_max_attendees, waives_questionnaire, created_at
		FROM event_invitations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []*domain.EventInvitation
	for rows.Next() {
		inv := &domain.EventInvitation{}
		var tierID sql.NullString
		if err := rows.Scan(
			&inv.ID, &inv.EventID, &inv.UserID, &tierID,
			&inv.OverridesMaxAttendees, &inv.WaivesQuestionnaire, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		if tierID.Valid {
			inv.TierID = &tierID.String
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []*domain.EventInvitation{}
	}
	return invs, nil
}
