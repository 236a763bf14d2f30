package handler

import (
	"context"
	"time"

	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/repository"
	"github.com/iliyamo/pitch-booking/internal/roster"
	"github.com/iliyamo/pitch-booking/internal/schedule"
	"github.com/iliyamo/pitch-booking/internal/service"
	"github.com/iliyamo/pitch-booking/internal/stats"
	"github.com/iliyamo/pitch-booking/internal/utils"
)

// mockReservations answers with the configured funcs; nil funcs return zero
// values.  Calls are recorded for assertions.
type mockReservations struct {
	JoinFn          func(ctx context.Context, resID, userID uint64) (roster.Result, error)
	KickFn          func(ctx context.Context, resID uint64, role model.Role, actor, target uint64, days int, reason string) (roster.Result, error)
	RemoveFn        func(ctx context.Context, resID, actor, user uint64) (roster.Result, error)
	CompleteFn      func(ctx context.Context, resID uint64, role model.Role, actor uint64) (roster.Result, error)
	SummaryFn       func(ctx context.Context, resID uint64, role model.Role, actor uint64, s model.GameSummary) (roster.Result, error)
	CreateFn        func(ctx context.Context, in service.NewReservation) (model.Reservation, error)
	SeriesFn        func(ctx context.Context, in service.NewReservation, rule string, limit int) ([]model.Reservation, error)
	GetFn           func(ctx context.Context, id uint64) (model.Reservation, error)
	ClassifiedFn    func(ctx context.Context, f repository.ReservationFilter) (schedule.Buckets, error)
	ByDateFn        func(ctx context.Context, date string) ([]model.Reservation, error)
	LeaderboardFn   func(ctx context.Context, m stats.Metric, limit int) ([]stats.Standing, error)
	lastFilter      repository.ReservationFilter
	lastSeriesLimit int
}

func (m *mockReservations) Join(ctx context.Context, resID, userID uint64) (roster.Result, error) {
	if m.JoinFn == nil {
		return roster.Result{}, nil
	}
	return m.JoinFn(ctx, resID, userID)
}

func (m *mockReservations) Leave(context.Context, uint64, uint64) (roster.Result, error) {
	return roster.Result{}, nil
}

func (m *mockReservations) Kick(ctx context.Context, resID uint64, role model.Role, actor, target uint64, days int, reason string) (roster.Result, error) {
	if m.KickFn == nil {
		return roster.Result{}, nil
	}
	return m.KickFn(ctx, resID, role, actor, target, days, reason)
}

func (m *mockReservations) PromoteFromWaitlist(context.Context, uint64, uint64, uint64) (roster.Result, error) {
	return roster.Result{}, nil
}

func (m *mockReservations) RemoveFromWaitlist(ctx context.Context, resID, actor, user uint64) (roster.Result, error) {
	if m.RemoveFn == nil {
		return roster.Result{}, nil
	}
	return m.RemoveFn(ctx, resID, actor, user)
}

func (m *mockReservations) Complete(ctx context.Context, resID uint64, role model.Role, actor uint64) (roster.Result, error) {
	if m.CompleteFn == nil {
		return roster.Result{}, nil
	}
	return m.CompleteFn(ctx, resID, role, actor)
}

func (m *mockReservations) Cancel(context.Context, uint64, model.Role, uint64) (roster.Result, error) {
	return roster.Result{}, nil
}

func (m *mockReservations) AttachSummary(ctx context.Context, resID uint64, role model.Role, actor uint64, s model.GameSummary) (roster.Result, error) {
	if m.SummaryFn == nil {
		return roster.Result{}, nil
	}
	return m.SummaryFn(ctx, resID, role, actor, s)
}

func (m *mockReservations) CreateReservation(ctx context.Context, in service.NewReservation) (model.Reservation, error) {
	if m.CreateFn == nil {
		return model.Reservation{}, nil
	}
	return m.CreateFn(ctx, in)
}

func (m *mockReservations) CreateSeries(ctx context.Context, in service.NewReservation, rule string, limit int) ([]model.Reservation, error) {
	m.lastSeriesLimit = limit
	if m.SeriesFn == nil {
		return nil, nil
	}
	return m.SeriesFn(ctx, in, rule, limit)
}

func (m *mockReservations) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	if m.GetFn == nil {
		return model.Reservation{}, nil
	}
	return m.GetFn(ctx, id)
}

func (m *mockReservations) Classified(ctx context.Context, f repository.ReservationFilter) (schedule.Buckets, error) {
	m.lastFilter = f
	if m.ClassifiedFn == nil {
		return schedule.Buckets{}, nil
	}
	return m.ClassifiedFn(ctx, f)
}

func (m *mockReservations) ByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	if m.ByDateFn == nil {
		return nil, nil
	}
	return m.ByDateFn(ctx, date)
}

func (m *mockReservations) UserStats(context.Context, uint64) (stats.UserStats, error) {
	return stats.UserStats{Matches: 3, Goals: 2}, nil
}

func (m *mockReservations) Suspensions(_ context.Context, userID uint64) ([]model.Suspension, error) {
	return []model.Suspension{{ID: "s-1", UserID: userID, Days: 3}}, nil
}

func (m *mockReservations) Leaderboard(ctx context.Context, metric stats.Metric, limit int) ([]stats.Standing, error) {
	if m.LeaderboardFn == nil {
		return nil, nil
	}
	return m.LeaderboardFn(ctx, metric, limit)
}

// memUsers is an in-memory UserAccounts.
type memUsers struct {
	byID   map[uint64]model.User
	nextID uint64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]model.User{}, nextID: 1} }

func (m *memUsers) Create(_ context.Context, email, displayName, password string, role model.Role, cost int) (uint64, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := m.nextID
	m.nextID++
	m.byID[id] = model.User{ID: id, Email: email, DisplayName: displayName, PasswordHash: hash, Role: role, IsActive: true}
	return id, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

// memTokens is an in-memory RefreshTokens.
type memTokens struct {
	live map[string]uint64
}

func newMemTokens() *memTokens { return &memTokens{live: map[string]uint64{}} }

func (m *memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	m.live[hash] = userID
	return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	id, ok := m.live[hash]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	if _, ok := m.live[hash]; !ok {
		return repository.ErrNotFound
	}
	delete(m.live, hash)
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	for h, id := range m.live {
		if id == userID {
			delete(m.live, h)
		}
	}
	return nil
}

// memPitches is an in-memory PitchStore.
type memPitches struct {
	items []model.Pitch
}

func (m *memPitches) Create(_ context.Context, p *model.Pitch) error {
	for _, it := range m.items {
		if it.Name == p.Name {
			return repository.ErrConflict
		}
	}
	p.ID = uint64(len(m.items) + 1)
	m.items = append(m.items, *p)
	return nil
}

func (m *memPitches) GetByID(_ context.Context, id uint64) (*model.Pitch, error) {
	for _, it := range m.items {
		if it.ID == id {
			p := it
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPitches) List(context.Context) ([]model.Pitch, error) { return m.items, nil }
