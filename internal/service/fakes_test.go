package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/repository"
)

type memReservations struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Reservation
	// failAt makes CreateMany fail on the n-th row (1-based); 0 disables it.
	failAt int
}

func newMemReservations(rs ...model.Reservation) *memReservations {
	m := &memReservations{rows: map[uint64]model.Reservation{}, nextID: 100}
	for _, r := range rs {
		m.rows[r.ID] = r.Clone()
	}
	return m
}

func (m *memReservations) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = r.Clone()
	return nil
}

func (m *memReservations) CreateMany(_ context.Context, rs []model.Reservation) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.nextID
	out := make([]model.Reservation, 0, len(rs))
	for i, r := range rs {
		if m.failAt == i+1 {
			return nil, errors.New("insert failed")
		}
		next++
		r = r.Clone()
		r.ID = next
		out = append(out, r)
	}
	m.nextID = next
	for _, r := range out {
		m.rows[r.ID] = r.Clone()
	}
	return out, nil
}

func (m *memReservations) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r.Clone(), nil
}

func (m *memReservations) List(_ context.Context, f repository.ReservationFilter) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range m.rows {
		if f.PitchID != 0 && r.PitchID != f.PitchID {
			continue
		}
		if f.Date != "" && r.Date != f.Date {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.UserID != 0 && !r.InLineup(f.UserID) && !r.InWaitlist(f.UserID) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *memReservations) Update(_ context.Context, id uint64, fn repository.MutateFunc) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	next, err := fn(cur.Clone())
	if err != nil {
		return model.Reservation{}, err
	}
	m.rows[id] = next.Clone()
	return next, nil
}

type memSuspensions struct {
	mu   sync.Mutex
	rows []model.Suspension
	err  error
}

func (m *memSuspensions) Create(_ context.Context, s model.Suspension) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, s)
	return nil
}

func (m *memSuspensions) ActiveForUser(_ context.Context, userID uint64, now time.Time) (model.Suspension, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.UserID == userID && s.ActiveAt(now) {
			return s, nil
		}
	}
	return model.Suspension{}, repository.ErrNotFound
}

func (m *memSuspensions) ListByUser(_ context.Context, userID uint64) ([]model.Suspension, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Suspension{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

type names map[uint64]string

func (n names) DisplayName(_ context.Context, id uint64) (string, error) {
	if v, ok := n[id]; ok {
		return v, nil
	}
	return "", repository.ErrNotFound
}

type pitches map[uint64]model.Pitch

func (p pitches) GetByID(_ context.Context, id uint64) (*model.Pitch, error) {
	if v, ok := p[id]; ok {
		return &v, nil
	}
	return nil, repository.ErrNotFound
}

type published struct {
	queue   string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (r *recorder) Publish(_ context.Context, queue string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{queue, payload})
	return r.err
}

func (r *recorder) queues() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.queue
	}
	return out
}
