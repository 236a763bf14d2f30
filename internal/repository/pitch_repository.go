package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// PitchRepo encapsulates all database queries related to pitches.
type PitchRepo struct {
	db *sql.DB
}

func NewPitchRepo(db *sql.DB) *PitchRepo { return &PitchRepo{db: db} }

const pitchColumns = "id, name, location, surface, capacity, created_at"

// Create inserts a new pitch.  On success the ID and CreatedAt fields of p
// are populated from the stored row.  A duplicate name yields ErrConflict.
func (r *PitchRepo) Create(ctx context.Context, p *model.Pitch) error {
	p.Name = strings.TrimSpace(p.Name)
	const qInsert = "INSERT INTO pitches (name, location, surface, capacity) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, p.Name, p.Location, p.Surface, p.Capacity)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID returns ErrNotFound if no row matches.
func (r *PitchRepo) GetByID(ctx context.Context, id uint64) (*model.Pitch, error) {
	var p model.Pitch
	err := r.db.QueryRowContext(ctx, "SELECT "+pitchColumns+" FROM pitches WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Location, &p.Surface, &p.Capacity, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every pitch ordered by name.
func (r *PitchRepo) List(ctx context.Context) ([]model.Pitch, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+pitchColumns+" FROM pitches ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Pitch{}
	for rows.Next() {
		var p model.Pitch
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &p.Surface, &p.Capacity, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
