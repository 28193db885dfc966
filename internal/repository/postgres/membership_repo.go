package postgres

import (
	"context"
	"database/sql"

	"eventgate/internal/domain"
)

type membershipRepository struct {
	DB *sql.DB
}

func NewMembershipRepository(db *sql.DB) domain.MembershipRepository {
	return &membershipRepository{
		DB: db,
	}
}

func (r *membershipRepository) IsActiveMember(ctx context.Context, orgID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM organization_members
			WHERE organization_id = $1 AND user_id = $2 AND status = 'ACTIVE'
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, orgID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *membershipRepository) IsActiveStaff(ctx context.Context, orgID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM organization_staff
			WHERE organization_id = $1 AND user_id = $2 AND active
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, orgID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
