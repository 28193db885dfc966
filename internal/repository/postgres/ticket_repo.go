package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgate/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{
		DB: db,
	}
}

func (r *ticketRepository) CountHeldByUser(ctx context.Context, eventID, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets t
		JOIN ticket_tiers tt ON tt.id = t.tier_id
		WHERE t.event_id = $1 AND t.user_id = $2 AND ` + attendanceCondition
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `
		SELECT id, event_id, tier_id, user_id, guest_name, status, created_at, updated_at
		FROM tickets
		WHERE id = $1
	`
	t := &domain.Ticket{}
	var userID, guestName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.EventID, &t.TierID, &userID, &guestName, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.UserID = userID.String
	t.GuestName = guestName.String
	return t, nil
}

func (r *ticketRepository) ListByEventAndUser(ctx context.Context, eventID, userID string) ([]*domain.Ticket, error) {
	query := `
		SELECT id, event_id, tier_id, user_id, guest_name, status, created_at, updated_at
		FROM tickets
		WHERE event_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t := &domain.Ticket{}
		var uid, guestName sql.NullString
		if err := rows.Scan(&t.ID, &t.EventID, &t.TierID, &uid, &guestName, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.UserID = uid.String
		t.GuestName = guestName.String
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	return tickets, nil
}

// CreateBatch inserts the batch under an exclusive lock on the tier row. The
// lock serializes concurrent batches against the same tier so the capacity
// re-check and the inserts are atomic; an oversubscribed batch rolls back
// with a ConflictError.
func (r *ticketRepository) CreateBatch(ctx context.Context, tier *domain.TicketTier, tickets []*domain.Ticket) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lockedCapacity sql.NullInt64
	lockQuery := `SELECT capacity FROM ticket_tiers WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lockQuery, tier.ID).Scan(&lockedCapacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if lockedCapacity.Valid {
		countQuery := `
			SELECT COUNT(*)
			FROM tickets t
			JOIN ticket_tiers tt ON tt.id = t.tier_id
			WHERE t.tier_id = $1 AND ` + attendanceCondition
		var issued int
		if err := tx.QueryRowContext(ctx, countQuery, tier.ID).Scan(&issued); err != nil {
			return err
		}
		if issued+len(tickets) > int(lockedCapacity.Int64) {
			remaining := int(lockedCapacity.Int64) - issued
			if remaining < 0 {
				remaining = 0
			}
			return domain.NewConflictError("ticket tier %s has only %d tickets left", tier.ID, remaining)
		}
	}

	insertQuery := `
		INSERT INTO tickets (event_id, tier_id, user_id, guest_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, t := range tickets {
		if err := tx.QueryRowContext(ctx, insertQuery,
			t.EventID, t.TierID, t.UserID, t.GuestName, t.Status, t.CreatedAt, t.UpdatedAt,
		).Scan(&t.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ticketRepository) Cancel(ctx context.Context, id string) error {
	query := `
		UPDATE tickets
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status <> 'CANCELLED'
	`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
