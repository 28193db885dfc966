package postgres

import (
	"context"
	"database/sql"

	"eventgate/internal/domain"
)

type questionnaireRepository struct {
	DB *sql.DB
}

func NewQuestionnaireRepository(db *sql.DB) domain.QuestionnaireRepository {
	return &questionnaireRepository{
		DB: db,
	}
}

// HasPassingSubmission only looks at the evaluation outcome; submission
// contents and scoring live outside this service.
func (r *questionnaireRepository) HasPassingSubmission(ctx context.Context, eventID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM questionnaire_submissions
			WHERE event_id = $1 AND user_id = $2 AND passed
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
