package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgate/internal/domain"
)

type eventTokenRepository struct {
	DB *sql.DB
}

func NewEventTokenRepository(db *sql.DB) domain.EventTokenRepository {
	return &eventTokenRepository{
		DB: db,
	}
}

func (r *eventTokenRepository) Create(ctx context.Context, token *domain.EventToken) error {
	query := `
		INSERT INTO event_tokens (
			id, event_id, issued_by, expires_at, max_uses, uses,
			grants_invitation, tier_id, overrides_max_attendees, waives_questionnaire, created_at
		)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10)
	`
	var overrides, waives bool
	if p := token.InvitationPayload; p != nil {
		overrides = p.OverridesMaxAttendees
		waives = p.WaivesQuestionnaire
	}
	_, err := r.DB.ExecContext(ctx, query,
		token.ID, token.EventID, token.IssuedBy, token.ExpiresAt, token.MaxUses,
		token.GrantsInvitation, token.TierID, overrides, waives, token.CreatedAt,
	)
	return err
}

// GetByID treats expired tokens as absent: the expiry filter runs in the
// database so caller clocks never disagree with the claim transaction.
func (r *eventTokenRepository) GetByID(ctx context.Context, id string) (*domain.EventToken, error) {
	query := `
		SELECT id, event_id, issued_by, expires_at, max_uses, uses,
		       grants_invitation, tier_id, overrides_max_attendees, waives_questionnaire, created_at
		FROM event_tokens
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`
	token := &domain.EventToken{}
	var expiresAt sql.NullTime
	var tierID sql.NullString
	var overrides, waives bool
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&token.ID, &token.EventID, &token.IssuedBy, &expiresAt, &token.MaxUses, &token.Uses,
		&token.GrantsInvitation, &tierID, &overrides, &waives, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if expiresAt.Valid {
		token.ExpiresAt = &expiresAt.Time
	}
	if tierID.Valid {
		token.TierID = &tierID.String
	}
	if overrides || waives {
		token.InvitationPayload = &domain.InvitationPayload{
			OverridesMaxAttendees: overrides,
			WaivesQuestionnaire:   waives,
		}
	}
	return token, nil
}

// ClaimInvitation runs the claim transaction. The use counter only moves via
// the guarded in-place `uses = uses + 1` update, never a read-modify-write,
// so concurrent claims cannot lose increments; and it only moves when a new
// invitation was inserted, so re-claims by the same user are free.
func (r *eventTokenRepository) ClaimInvitation(ctx context.Context, token *domain.EventToken, inv *domain.EventInvitation) (*domain.EventInvitation, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO event_invitations (event_id, user_id, tier_id, overrides_max_attendees, waives_questionnaire, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING id, created_at
	`
	created := true
	err = tx.QueryRowContext(ctx, insertQuery,
		inv.EventID, inv.UserID, inv.TierID, inv.OverridesMaxAttendees, inv.WaivesQuestionnaire,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, err
		}
		created = false
	}

	if created {
		useQuery := `
			UPDATE event_tokens
			SET uses = uses + 1
			WHERE id = $1 AND (max_uses = 0 OR uses < max_uses)
		`
		result, err := tx.ExecContext(ctx, useQuery, token.ID)
		if err != nil {
			return nil, false, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return nil, false, err
		}
		if rows == 0 {
			// Exhausted between the caller's read and this update. Roll the
			// invitation insert back with the transaction.
			return nil, false, nil
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return inv, true, nil
	}

	// The user already holds an invitation; claiming again is a no-op.
	selectQuery := `
		SELECT id, event_id, user_id, tier_id, overrides_max_attendees, waives_questionnaire, created_at
		FROM event_invitations
		WHERE event_id = $1 AND user_id = $2
	`
	existing := &domain.EventInvitation{}
	var tierID sql.NullString
	err = tx.QueryRowContext(ctx, selectQuery, inv.EventID, inv.UserID).Scan(
		&existing.ID, &existing.EventID, &existing.UserID, &tierID,
		&existing.OverridesMaxAttendees, &existing.WaivesQuestionnaire, &existing.CreatedAt,
	)
	if err != nil {
		return nil, false, err
	}
	if tierID.Valid {
		existing.TierID = &tierID.String
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
