// Package service binds the roster engine, classifier and stats to storage
// and the message broker.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/queue"
	"github.com/iliyamo/pitch-booking/internal/repository"
	"github.com/iliyamo/pitch-booking/internal/roster"
	"github.com/iliyamo/pitch-booking/internal/schedule"
	"github.com/iliyamo/pitch-booking/internal/stats"
)

var (
	// ErrSuspended rejects a join from a player serving a suspension.
	ErrSuspended = errors.New("player is suspended")
	// ErrInvalidInput covers malformed admin input such as a bad date.
	ErrInvalidInput = errors.New("invalid input")
)

type ReservationStore interface {
	Create(ctx context.Context, r *model.Reservation) error
	CreateMany(ctx context.Context, rs []model.Reservation) ([]model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]model.Reservation, error)
	Update(ctx context.Context, id uint64, fn repository.MutateFunc) (model.Reservation, error)
}

type SuspensionStore interface {
	Create(ctx context.Context, s model.Suspension) error
	ActiveForUser(ctx context.Context, userID uint64, now time.Time) (model.Suspension, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Suspension, error)
}

// UserDirectory resolves the name copied into a lineup entry.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID uint64) (string, error)
}

type PitchCatalog interface {
	GetByID(ctx context.Context, id uint64) (*model.Pitch, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// ReservationService runs every roster mutation as load, engine call and
// store inside one ReservationStore.Update, then publishes what happened.
type ReservationService struct {
	reservations ReservationStore
	suspensions  SuspensionStore
	users        UserDirectory
	pitches      PitchCatalog
	events       EventPublisher
	engine       *roster.Engine
	clock        schedule.Clock
	logger       *zap.Logger
}

func NewReservationService(
	reservations ReservationStore,
	suspensions SuspensionStore,
	users UserDirectory,
	pitches PitchCatalog,
	events EventPublisher,
	engine *roster.Engine,
	clock schedule.Clock,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		suspensions:  suspensions,
		users:        users,
		pitches:      pitches,
		events:       events,
		engine:       engine,
		clock:        clock,
		logger:       logger.Named("reservations"),
	}
}

// Join adds userID to the lineup or waiting list.
func (s *ReservationService) Join(ctx context.Context, reservationID, userID uint64) (roster.Result, error) {
	susp, err := s.suspensions.ActiveForUser(ctx, userID, s.clock.Now())
	switch {
	case err == nil:
		return roster.Result{}, fmt.Errorf("%w until %s", ErrSuspended, susp.ExpiresAt.UTC().Format(time.RFC3339))
	case !errors.Is(err, repository.ErrNotFound):
		return roster.Result{}, err
	}
	name := s.displayName(ctx, userID)

	return s.mutate(ctx, reservationID, userID, userID, func(r model.Reservation) (roster.Result, error) {
		return s.engine.Join(r, userID, name)
	})
}

// Leave removes userID from whichever list holds them.
func (s *ReservationService) Leave(ctx context.Context, reservationID, userID uint64) (roster.Result, error) {
	return s.mutate(ctx, reservationID, userID, userID, func(r model.Reservation) (roster.Result, error) {
		return s.engine.Leave(r, userID)
	})
}

// Kick removes target from the lineup and stores the resulting suspension.
// actorRole is passed through so the engine decides who may kick.
func (s *ReservationService) Kick(ctx context.Context, reservationID uint64, actorRole model.Role, actorID, target uint64, days int, reason string) (roster.Result, error) {
	res, err := s.mutate(ctx, reservationID, actorID, target, func(r model.Reservation) (roster.Result, error) {
		return s.engine.Kick(r, actorRole, actorID, target, days, reason)
	})
	if err != nil {
		return res, err
	}
	if err := s.suspensions.Create(ctx, *res.Suspension); err != nil {
		return res, fmt.Errorf("store suspension: %w", err)
	}
	sp := res.Suspension
	s.publish(ctx, queue.SuspensionIssuedQueue, queue.SuspensionIssuedEvent{
		EventID:       uuid.NewString(),
		SuspensionID:  sp.ID,
		UserID:        sp.UserID,
		ReservationID: sp.ReservationID,
		Days:          sp.Days,
		Reason:        sp.Reason,
		IssuedBy:      sp.IssuedBy,
		IssuedAt:      sp.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt:     sp.ExpiresAt.UTC().Format(time.RFC3339),
	})
	return res, nil
}

// PromoteFromWaitlist moves a specific waiting player into the lineup.
func (s *ReservationService) PromoteFromWaitlist(ctx context.Context, reservationID, actorID, userID uint64) (roster.Result, error) {
	return s.mutate(ctx, reservationID, actorID, userID, func(r model.Reservation) (roster.Result, error) {
		return s.engine.PromoteFromWaitlist(r, userID)
	})
}

// RemoveFromWaitlist drops userID from the waiting list.  Players may remove
// themselves; admins may remove anyone, which the handler decides.
func (s *ReservationService) RemoveFromWaitlist(ctx context.Context, reservationID, actorID, userID uint64) (roster.Result, error) {
	return s.mutate(ctx, reservationID, actorID, userID, func(r model.Reservation) (roster.Result, error) {
		return s.engine.RemoveFromWaitlist(r, userID)
	})
}

func (s *ReservationService) Complete(ctx context.Context, reservationID uint64, actorRole model.Role, actorID uint64) (roster.Result, error) {
	return s.mutate(ctx, reservationID, actorID, 0, func(r model.Reservation) (roster.Result, error) {
		return s.engine.CompleteGame(r, actorRole)
	})
}

func (s *ReservationService) Cancel(ctx context.Context, reservationID uint64, actorRole model.Role, actorID uint64) (roster.Result, error) {
	return s.mutate(ctx, reservationID, actorID, 0, func(r model.Reservation) (roster.Result, error) {
		return s.engine.CancelGame(r, actorRole)
	})
}

func (s *ReservationService) AttachSummary(ctx context.Context, reservationID uint64, actorRole model.Role, actorID uint64, summary model.GameSummary) (roster.Result, error) {
	return s.mutate(ctx, reservationID, actorID, 0, func(r model.Reservation) (roster.Result, error) {
		return s.engine.AttachSummary(r, actorRole, summary)
	})
}

// mutate runs op against the locked reservation, fills in names of players
// the engine moved into the lineup, persists and publishes the change.
func (s *ReservationService) mutate(ctx context.Context, reservationID, actorID, subjectID uint64, op func(model.Reservation) (roster.Result, error)) (roster.Result, error) {
	var res roster.Result
	_, err := s.reservations.Update(ctx, reservationID, func(cur model.Reservation) (model.Reservation, error) {
		var err error
		res, err = op(cur)
		if err != nil {
			return model.Reservation{}, err
		}
		s.fillNames(ctx, &res.Reservation)
		return res.Reservation, nil
	})
	if err != nil {
		return roster.Result{}, err
	}

	r := res.Reservation
	s.logger.Info("roster changed",
		zap.Uint64("reservation_id", r.ID),
		zap.String("outcome", string(res.Outcome)),
		zap.Uint64("user_id", subjectID),
		zap.Uint64("actor_id", actorID),
		zap.Uint64("promoted", res.Promoted),
		zap.String("status", string(r.Status)))
	s.publish(ctx, queue.RosterChangedQueue, queue.RosterChangedEvent{
		EventID:       uuid.NewString(),
		ReservationID: r.ID,
		PitchName:     r.PitchName,
		Date:          r.Date,
		StartTime:     r.StartTime,
		Outcome:       string(res.Outcome),
		UserID:        subjectID,
		ActorID:       actorID,
		Promoted:      res.Promoted,
		Status:        string(r.Status),
		LineupSize:    len(r.Lineup),
		MaxPlayers:    r.MaxPlayers,
		WaitlistSize:  len(r.WaitingList),
		OccurredAt:    r.UpdatedAt.UTC().Format(time.RFC3339),
	})
	return res, nil
}

// fillNames resolves names for lineup entries created by a promotion.
func (s *ReservationService) fillNames(ctx context.Context, r *model.Reservation) {
	for i := range r.Lineup {
		if r.Lineup[i].PlayerName == "" {
			r.Lineup[i].PlayerName = s.displayName(ctx, r.Lineup[i].UserID)
		}
	}
}

func (s *ReservationService) displayName(ctx context.Context, userID uint64) string {
	name, err := s.users.DisplayName(ctx, userID)
	if err != nil {
		s.logger.Warn("display name lookup failed", zap.Uint64("user_id", userID), zap.Error(err))
		return ""
	}
	return name
}

// publish never fails the caller; the roster change is already committed.
func (s *ReservationService) publish(ctx context.Context, q string, payload any) {
	if s.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, q, payload); err != nil {
		s.logger.Warn("publish failed", zap.String("queue", q), zap.Error(err))
	}
}

// NewReservation is the admin input for creating a game.  MaxPlayers of 0
// takes the pitch capacity.
type NewReservation struct {
	PitchID    uint64
	Date       string
	StartTime  string
	EndTime    string
	MaxPlayers int
	CreatedBy  uint64
}

// CreateReservation validates in and stores an open game with an empty
// roster.  Pitch name and location are copied from the catalog.
func (s *ReservationService) CreateReservation(ctx context.Context, in NewReservation) (model.Reservation, error) {
	pitch, err := s.pitches.GetByID(ctx, in.PitchID)
	if err != nil {
		return model.Reservation{}, err
	}
	r, err := s.draft(in, pitch)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := s.reservations.Create(ctx, &r); err != nil {
		return model.Reservation{}, err
	}
	s.logger.Info("reservation created", zap.Uint64("reservation_id", r.ID), zap.String("date", r.Date))
	return r, nil
}

// CreateSeries creates one game per occurrence of rule (an RFC 5545 RRULE)
// starting at in.Date/in.StartTime, capped at limit occurrences.  The
// series is stored atomically: on error no occurrence is kept.
func (s *ReservationService) CreateSeries(ctx context.Context, in NewReservation, rule string, limit int) ([]model.Reservation, error) {
	pitch, err := s.pitches.GetByID(ctx, in.PitchID)
	if err != nil {
		return nil, err
	}
	first, err := s.draft(in, pitch)
	if err != nil {
		return nil, err
	}
	from, _ := first.StartsAt(s.location())
	times, err := schedule.ExpandSeries(rule, from, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	drafts := make([]model.Reservation, 0, len(times))
	for _, t := range times {
		r := first.Clone()
		r.Date = t.Format(model.DateLayout)
		drafts = append(drafts, r)
	}
	out, err := s.reservations.CreateMany(ctx, drafts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("series created", zap.Uint64("pitch_id", in.PitchID), zap.Int("count", len(out)))
	return out, nil
}

func (s *ReservationService) draft(in NewReservation, pitch *model.Pitch) (model.Reservation, error) {
	date, err := model.ParseDate(in.Date)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}
	start, err := model.ParseClock(in.StartTime)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
	}
	var end string
	if strings.TrimSpace(in.EndTime) != "" {
		if end, err = model.ParseClock(in.EndTime); err != nil {
			return model.Reservation{}, fmt.Errorf("%w: end_time: %v", ErrInvalidInput, err)
		}
	}
	maxPlayers := in.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = pitch.Capacity
	}
	if maxPlayers < 1 {
		return model.Reservation{}, fmt.Errorf("%w: max_players must be positive", ErrInvalidInput)
	}
	return model.Reservation{
		PitchID:     pitch.ID,
		PitchName:   pitch.Name,
		Location:    pitch.Location,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		MaxPlayers:  maxPlayers,
		Lineup:      []model.RosterEntry{},
		WaitingList: []uint64{},
		Status:      model.StatusOpen,
		CreatedBy:   in.CreatedBy,
	}, nil
}

func (s *ReservationService) location() *time.Location {
	return s.clock.Now().Location()
}

func (s *ReservationService) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// Classified buckets the reservations matching f relative to now.
func (s *ReservationService) Classified(ctx context.Context, f repository.ReservationFilter) (schedule.Buckets, error) {
	rs, err := s.reservations.List(ctx, f)
	if err != nil {
		return schedule.Buckets{}, err
	}
	return schedule.Classify(rs, s.clock.Now()), nil
}

// ByDate lists the games on one calendar date.
func (s *ReservationService) ByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}
	rs, err := s.reservations.List(ctx, repository.ReservationFilter{Date: date})
	if err != nil {
		return nil, err
	}
	return schedule.FilterByDate(rs, date), nil
}

func (s *ReservationService) HasGamesOn(ctx context.Context, date string) (bool, error) {
	rs, err := s.ByDate(ctx, date)
	if err != nil {
		return false, err
	}
	return schedule.HasReservationsOn(rs, date), nil
}

func (s *ReservationService) UserStats(ctx context.Context, userID uint64) (stats.UserStats, error) {
	rs, err := s.reservations.List(ctx, repository.ReservationFilter{UserID: userID, Status: model.StatusCompleted})
	if err != nil {
		return stats.UserStats{}, err
	}
	return stats.ForUser(rs, userID), nil
}

// Suspensions lists every suspension issued to userID, newest first.
func (s *ReservationService) Suspensions(ctx context.Context, userID uint64) ([]model.Suspension, error) {
	return s.suspensions.ListByUser(ctx, userID)
}

func (s *ReservationService) Leaderboard(ctx context.Context, metric stats.Metric, limit int) ([]stats.Standing, error) {
	rs, err := s.reservations.List(ctx, repository.ReservationFilter{Status: model.StatusCompleted})
	if err != nil {
		return nil, err
	}
	return stats.Leaderboard(rs, metric, limit), nil
}
