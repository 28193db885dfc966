package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventgate/internal/domain"
)

const uniqueViolation = "23505"

type eventInvitationRequestRepository struct {
	DB *sql.DB
}

func NewEventInvitationRequestRepository(db *sql.DB) domain.EventInvitationRequestRepository {
	return &eventInvitationRequestRepository{
		DB: db,
	}
}

// Create inserts a pending request. A partial unique index on
// (event_id, user_id) WHERE status = 'PENDING' enforces the one-pending-
// request rule under concurrency; the violation surfaces as
// ErrDuplicateRequest.
func (r *eventInvitationRequestRepository) Create(ctx context.Context, req *domain.EventInvitationRequest) error {
	query := `
		INSERT INTO event_invitation_requests (event_id, user_id, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		req.EventID, req.UserID, req.Message, req.Status, req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *eventInvitationRequestRepository) GetByID(ctx context.Context, id string) (*domain.EventInvitationRequest, error) {
	query := `
		SELECT id, event_id, user_id, message, status, decided_by, decided_at, created_at
		FROM event_invitation_requests
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventInvitationRequestRepository) GetPendingByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventInvitationRequest, error) {
	query := `
		SELECT id, event_id, user_id, message, status, decided_by, decided_at, created_at
		FROM event_invitation_requests
		WHERE event_id = $1 AND user_id = $2 AND status = 'PENDING'
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, eventID, userID))
}

func (r *eventInvitationRequestRepository) ListByEventID(ctx context.Context, eventID string, status *domain.InvitationRequestStatus) ([]*domain.EventInvitationRequest, error) {
	query := `
		SELECT id, event_id, user_id, message, status, decided_by, decided_at, created_at
		FROM event_invitation_requests
		WHERE event_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
	`
	var statusArg interface{}
	if status != nil {
		statusArg = string(*status)
	}
	rows, err := r.DB.QueryContext(ctx, query, eventID, statusArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*domain.EventInvitationRequest
	for rows.Next() {
		req, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []*domain.EventInvitationRequest{}
	}
	return reqs, nil
}

// Decide flips a PENDING request to its terminal status and, on approval,
// get-or-creates the invitation in the same transaction. The status guard in
// the UPDATE makes concurrent decisions race safely: exactly one wins.
func (r *eventInvitationRequestRepository) Decide(ctx context.Context, requestID string, status domain.InvitationRequestStatus, decidedBy string, inv *domain.EventInvitation) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE event_invitation_requests
		SET status = $1, decided_by = $2, decided_at = NOW()
		WHERE id = $3 AND status = 'PENDING'
	`
	result, err := tx.ExecContext(ctx, updateQuery, status, decidedBy, requestID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	if inv != nil {
		insertQuery := `
			INSERT INTO event_invitations (event_id, user_id, tier_id, overrides_max_attendees, waives_questionnaire, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (event_id, user_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, insertQuery,
			inv.EventID, inv.UserID, inv.TierID, inv.OverridesMaxAttendees, inv.WaivesQuestionnaire,
		); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *eventInvitationRequestRepository) scanOne(row *sql.Row) (*domain.EventInvitationRequest, error) {
	req, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *eventInvitationRequestRepository) scanRow(row rowScanner) (*domain.EventInvitationRequest, error) {
	req := &domain.EventInvitationRequest{}
	var decidedBy sql.NullString
	var decidedAt sql.NullTime
	if err := row.Scan(
		&req.ID, &req.EventID, &req.UserID, &req.Message, &req.Status,
		&decidedBy, &decidedAt, &req.CreatedAt,
	); err != nil {
		return nil, err
	}
	if decidedBy.Valid {
		req.DecidedBy = &decidedBy.String
	}
	if decidedAt.Valid {
		req.DecidedAt = &decidedAt.Time
	}
	return req, nil
}
