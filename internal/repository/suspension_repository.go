package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// SuspensionRepo stores the records issued when a player is kicked.
type SuspensionRepo struct {
	db *sql.DB
}

func NewSuspensionRepo(db *sql.DB) *SuspensionRepo { return &SuspensionRepo{db: db} }

const suspensionColumns = "id, user_id, reservation_id, days, reason, issued_by, issued_at, expires_at"

func (r *SuspensionRepo) Create(ctx context.Context, s model.Suspension) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO suspensions ("+suspensionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.UserID, s.ReservationID, s.Days, s.Reason, s.IssuedBy, s.IssuedAt.UTC(), s.ExpiresAt.UTC())
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// ActiveForUser returns the suspension with the latest expiry that is still
// running at now, or ErrNotFound.
func (r *SuspensionRepo) ActiveForUser(ctx context.Context, userID uint64, now time.Time) (model.Suspension, error) {
	var s model.Suspension
	err := r.db.QueryRowContext(ctx,
		"SELECT "+suspensionColumns+" FROM suspensions WHERE user_id = ? AND expires_at > ? ORDER BY expires_at DESC LIMIT 1",
		userID, now.UTC()).
		Scan(&s.ID, &s.UserID, &s.ReservationID, &s.Days, &s.Reason, &s.IssuedBy, &s.IssuedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Suspension{}, ErrNotFound
	}
	return s, err
}

// ListByUser returns a user's suspensions, newest first.
func (r *SuspensionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Suspension, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+suspensionColumns+" FROM suspensions WHERE user_id = ? ORDER BY issued_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Suspension{}
	for rows.Next() {
		var s model.Suspension
		if err := rows.Scan(&s.ID, &s.UserID, &s.ReservationID, &s.Days, &s.Reason, &s.IssuedBy, &s.IssuedAt, &s.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
