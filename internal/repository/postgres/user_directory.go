package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgate/internal/domain"
)

type userDirectory struct {
	DB *sql.DB
}

func NewUserDirectory(db *sql.DB) domain.UserDirectory {
	return &userDirectory{
		DB: db,
	}
}

func (r *userDirectory) EmailFor(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT email
		FROM users
		WHERE id = $1
	`
	var email string
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return email, nil
}
