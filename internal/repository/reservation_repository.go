package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// ReservationRepo stores reservations.  The lineup, waiting list, summary
// and highlights live in JSON columns on the same row, so a roster change
// is always a single-row write.
type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationFilter narrows List.  Zero fields are ignored.  UserID matches
// reservations where the user is in the lineup or on the waiting list.
type ReservationFilter struct {
	PitchID uint64
	Date    string
	UserID  uint64
	Status  model.ReservationStatus
}

// MutateFunc receives the locked current row and returns the row to store.
// Returning an error aborts the transaction and is passed through unchanged.
type MutateFunc func(model.Reservation) (model.Reservation, error)

const reservationColumns = `id, pitch_id, pitch_name, location, game_date, start_time, end_time,
	max_players, lineup, waiting_list, status, summary, highlights, created_by, created_at, updated_at`

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Create inserts r and fills in its ID and timestamps.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	return insertReservation(ctx, r.db, res)
}

// CreateMany inserts every reservation in one transaction: either all rows
// are stored or none is.  The stored rows are returned in input order.
func (r *ReservationRepo) CreateMany(ctx context.Context, rs []model.Reservation) ([]model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]model.Reservation, 0, len(rs))
	for i := range rs {
		res := rs[i].Clone()
		if err := insertReservation(ctx, tx, &res); err != nil {
			return nil, fmt.Errorf("insert %s: %w", res.Date, err)
		}
		out = append(out, res)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func insertReservation(ctx context.Context, db dbtx, res *model.Reservation) error {
	doc, err := encodeRoster(*res)
	if err != nil {
		return err
	}
	const q = `INSERT INTO reservations
		(pitch_id, pitch_name, location, game_date, start_time, end_time, max_players,
		 lineup, waiting_list, status, summary, highlights, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	out, err := db.ExecContext(ctx, q,
		res.PitchID, res.PitchName, res.Location, res.Date, res.StartTime, res.EndTime, res.MaxPlayers,
		doc.lineup, doc.waitlist, string(res.Status), doc.summary, doc.highlights, res.CreatedBy)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanReservation(db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id))
	if err != nil {
		return err
	}
	*res = stored
	return nil
}

// GetByID returns ErrNotFound if no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id))
}

// List returns the reservations matching f ordered by date and kick-off.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	var (
		where []string
		args  []any
	)
	if f.PitchID != 0 {
		where = append(where, "pitch_id = ?")
		args = append(args, f.PitchID)
	}
	if f.Date != "" {
		where = append(where, "game_date = ?")
		args = append(args, f.Date)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.UserID != 0 {
		where = append(where, "(JSON_CONTAINS(JSON_EXTRACT(lineup, '$[*].user_id'), CAST(? AS JSON)) OR JSON_CONTAINS(waiting_list, CAST(? AS JSON)))")
		id := fmt.Sprint(f.UserID)
		args = append(args, id, id)
	}
	q := "SELECT " + reservationColumns + " FROM reservations"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY game_date, start_time, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Update loads the reservation with SELECT ... FOR UPDATE, applies fn and
// writes the result back in the same transaction.  Concurrent updates of
// one reservation therefore run one after another.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, fn MutateFunc) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ? FOR UPDATE", id))
	if err != nil {
		return model.Reservation{}, err
	}
	next, err := fn(cur)
	if err != nil {
		return model.Reservation{}, err
	}
	doc, err := encodeRoster(next)
	if err != nil {
		return model.Reservation{}, err
	}
	const q = `UPDATE reservations
		SET lineup = ?, waiting_list = ?, status = ?, summary = ?, highlights = ?, updated_at = ?
		WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q,
		doc.lineup, doc.waitlist, string(next.Status), doc.summary, doc.highlights, next.UpdatedAt, id); err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	return next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (model.Reservation, error) {
	var (
		res                 model.Reservation
		status              string
		lineup, waitlist    []byte
		summary, highlights []byte
	)
	err := row.Scan(&res.ID, &res.PitchID, &res.PitchName, &res.Location, &res.Date, &res.StartTime, &res.EndTime,
		&res.MaxPlayers, &lineup, &waitlist, &status, &summary, &highlights, &res.CreatedBy, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.ReservationStatus(status)
	res.Lineup = []model.RosterEntry{}
	res.WaitingList = []uint64{}
	if err := decodeJSON(lineup, &res.Lineup); err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %d lineup: %w", res.ID, err)
	}
	if err := decodeJSON(waitlist, &res.WaitingList); err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %d waiting_list: %w", res.ID, err)
	}
	if len(summary) > 0 && string(summary) != "null" {
		res.Summary = new(model.GameSummary)
		if err := json.Unmarshal(summary, res.Summary); err != nil {
			return model.Reservation{}, fmt.Errorf("reservation %d summary: %w", res.ID, err)
		}
	}
	if err := decodeJSON(highlights, &res.Highlights); err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %d highlights: %w", res.ID, err)
	}
	return res, nil
}

func decodeJSON(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

// rosterDoc holds the JSON column values of a reservation.  They are sent
// as strings because MySQL rejects JSON built from binary-charset values.
// Nil summary and highlights are written as SQL NULL.
type rosterDoc struct {
	lineup, waitlist    string
	summary, highlights any
}

func encodeRoster(res model.Reservation) (rosterDoc, error) {
	var doc rosterDoc
	lineup := res.Lineup
	if lineup == nil {
		lineup = []model.RosterEntry{}
	}
	waitlist := res.WaitingList
	if waitlist == nil {
		waitlist = []uint64{}
	}
	b, err := json.Marshal(lineup)
	if err != nil {
		return doc, err
	}
	doc.lineup = string(b)
	if b, err = json.Marshal(waitlist); err != nil {
		return doc, err
	}
	doc.waitlist = string(b)
	if res.Summary != nil {
		if b, err = json.Marshal(res.Summary); err != nil {
			return doc, err
		}
		doc.summary = string(b)
	}
	if len(res.Highlights) > 0 {
		if b, err = json.Marshal(res.Highlights); err != nil {
			return doc, err
		}
		doc.highlights = string(b)
	}
	return doc, nil
}
