package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgate/internal/domain"
)

type ticketTierRepository struct {
	DB *sql.DB
}

func NewTicketTierRepository(db *sql.DB) domain.TicketTierRepository {
	return &ticketTierRepository{
		DB: db,
	}
}

func (r *ticketTierRepository) Create(ctx context.Context, tier *domain.TicketTier) error {
	query := `
		INSERT INTO ticket_tiers (event_id, name, payment_method, price_cents, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		tier.EventID, tier.Name, tier.PaymentMethod, tier.PriceCents, tier.Capacity,
		tier.CreatedAt, tier.UpdatedAt,
	).Scan(&tier.ID)
}

func (r *ticketTierRepository) GetByID(ctx context.Context, id string) (*domain.TicketTier, error) {
	query := `
		SELECT id, event_id, name, payment_method, price_cents, capacity, created_at, updated_at
		FROM ticket_tiers
		WHERE id = $1
	`
	tier := &domain.TicketTier{}
	var capacity sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&tier.ID, &tier.EventID, &tier.Name, &tier.PaymentMethod, &tier.PriceCents,
		&capacity, &tier.CreatedAt, &tier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if capacity.Valid {
		n := int(capacity.Int64)
		tier.Capacity = &n
	}
	return tier, nil
}

func (r *ticketTierRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.TicketTier, error) {
	query := `
		SELECT id, event_id, name, payment_method, price_cents, capacity, created_at, updated_at
		FROM ticket_tiers
		WHERE event_id = $1
		ORDER BY price_cents ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []*domain.TicketTier
	for rows.Next() {
		tier := &domain.TicketTier{}
		var capacity sql.NullInt64
		if err := rows.Scan(
			&tier.ID, &tier.EventID, &tier.Name, &tier.PaymentMethod, &tier.PriceCents,
			&capacity, &tier.CreatedAt, &tier.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if capacity.Valid {
			n := int(capacity.Int64)
			tier.Capacity = &n
		}
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if tiers == nil {
		tiers = []*domain.TicketTier{}
	}
	return tiers, nil
}
