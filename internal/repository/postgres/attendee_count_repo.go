package postgres

import (
	"context"
	"database/sql"

	"eventgate/internal/domain"
)

type attendeeCountRepository struct {
	DB *sql.DB
}

func NewAttendeeCountRepository(db *sql.DB) domain.AttendeeCountRepository {
	return &attendeeCountRepository{
		DB: db,
	}
}

// CountConfirmed is the one query defining "who counts as attending": every
// ticket that counts toward attendance occupies a seat (guest tickets
// included), plus each YES RSVP from a user who holds no such ticket. The
// ticket predicate is the shared attendanceCondition fragment, the same one
// quota and capacity checks use.
func (r *attendeeCountRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT
			(
				SELECT COUNT(*)
				FROM tickets t
				JOIN ticket_tiers tt ON tt.id = t.tier_id
				WHERE t.event_id = $1 AND ` + attendanceCondition + `
			)
			+
			(
				SELECT COUNT(*)
				FROM event_rsvps r
				WHERE r.event_id = $1 AND r.answer = 'YES'
				AND NOT EXISTS (
					SELECT 1
					FROM tickets t
					JOIN ticket_tiers tt ON tt.id = t.tier_id
					WHERE t.event_id = r.event_id AND t.user_id = r.user_id AND ` + attendanceCondition + `
				)
			)
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
