// Package roster owns the lineup and waiting list of a reservation.  Every
// transition between them goes through an Engine method, which takes a
// reservation by value and returns a new one; nothing here touches storage.
package roster

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// Suspension bounds accepted by Kick.
const (
	MinSuspensionDays = 1
	MaxSuspensionDays = 365
)

// Outcome tags what an operation did.
type Outcome string

const (
	OutcomeJoinedLineup        Outcome = "joined_lineup"
	OutcomeJoinedWaitlist      Outcome = "joined_waitlist"
	OutcomeLeftLineup          Outcome = "left_lineup"
	OutcomeLeftWaitlist        Outcome = "left_waitlist"
	OutcomeKicked              Outcome = "kicked"
	OutcomePromoted            Outcome = "promoted"
	OutcomeRemovedFromWaitlist Outcome = "removed_from_waitlist"
	OutcomeCompleted           Outcome = "completed"
	OutcomeCancelled           Outcome = "cancelled"
	OutcomeSummaryAttached     Outcome = "summary_attached"
)

// Result is the new reservation plus what happened to it.  Promoted is the
// user moved off the waiting list by this operation (0 when nobody was).
// Suspension is only set by Kick.
type Result struct {
	Reservation model.Reservation `json:"reservation"`
	Outcome     Outcome           `json:"outcome"`
	Promoted    uint64            `json:"promoted,omitempty"`
	Suspension  *model.Suspension `json:"suspension,omitempty"`
}

// Engine applies roster transitions.  It is stateless apart from its clock
// and ID source and safe for concurrent use.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for JoinedAt and IssuedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the uuid source used for suspension IDs.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New returns an Engine using time.Now and random uuids unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Join adds a player to the lineup, or to the end of the waiting list when
// the lineup is at capacity.
func (e *Engine) Join(r model.Reservation, userID uint64, playerName string) (Result, error) {
	const op = "join"
	if r.Status.Terminal() {
		return Result{}, fail(op, r.ID, userID, ErrReservationClosed)
	}
	if r.InLineup(userID) || r.InWaitlist(userID) {
		return Result{}, fail(op, r.ID, userID, ErrAlreadyJoined)
	}

	next := r.Clone()
	outcome := OutcomeJoinedWaitlist
	if next.HasRoom() {
		next.Lineup = append(next.Lineup, e.entry(userID, playerName))
		outcome = OutcomeJoinedLineup
	} else {
		next.WaitingList = append(next.WaitingList, userID)
	}
	return e.settle(next, outcome, 0), nil
}

// Leave removes a player from whichever list holds them.  Leaving the
// lineup frees a slot that is immediately given to the head of the waiting
// list; leaving the waiting list changes nothing else.
func (e *Engine) Leave(r model.Reservation, userID uint64) (Result, error) {
	const op = "leave"
	if r.Status.Terminal() {
		return Result{}, fail(op, r.ID, userID, ErrReservationClosed)
	}
	if i := r.WaitlistIndex(userID); i >= 0 && !r.InLineup(userID) {
		next := r.Clone()
		next.WaitingList = removeAt(next.WaitingList, i)
		return e.settle(next, OutcomeLeftWaitlist, 0), nil
	}
	if !r.InLineup(userID) {
		return Result{}, fail(op, r.ID, userID, ErrNotJoined)
	}
	next, promoted := e.dropFromLineup(r, userID)
	return e.settle(next, OutcomeLeftLineup, promoted), nil
}

// Kick removes a player from the lineup on behalf of an admin and issues a
// suspension record.  The freed slot is filled from the waiting list as in
// Leave.  A non-admin actor is rejected before any other argument is looked at.
func (e *Engine) Kick(r model.Reservation, actorRole model.Role, actorID, targetUserID uint64, suspensionDays int, reason string) (Result, error) {
	const op = "kick"
	if actorRole != model.RoleAdmin {
		return Result{}, fail(op, r.ID, targetUserID, ErrForbidden)
	}
	if r.Status.Terminal() {
		return Result{}, fail(op, r.ID, targetUserID, ErrReservationClosed)
	}
	if !r.InLineup(targetUserID) {
		return Result{}, fail(op, r.ID, targetUserID, ErrPlayerNotInGame)
	}
	if suspensionDays < MinSuspensionDays || suspensionDays > MaxSuspensionDays {
		return Result{}, fail(op, r.ID, targetUserID, ErrInvalidSuspensionDuration)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Result{}, fail(op, r.ID, targetUserID, ErrMissingReason)
	}

	next, promoted := e.dropFromLineup(r, targetUserID)
	res := e.settle(next, OutcomeKicked, promoted)
	issued := e.now()
	res.Suspension = &model.Suspension{
		ID:            e.newID(),
		UserID:        targetUserID,
		ReservationID: r.ID,
		Days:          suspensionDays,
		Reason:        reason,
		IssuedBy:      actorID,
		IssuedAt:      issued,
		ExpiresAt:     issued.AddDate(0, 0, suspensionDays),
	}
	return res, nil
}

// PromoteFromWaitlist moves a specific waiting player into the lineup,
// regardless of their position in the queue.
func (e *Engine) PromoteFromWaitlist(r model.Reservation, userID uint64) (Result, error) {
	const op = "promote"
	if r.Status.Terminal() {
		return Result{}, fail(op, r.ID, userID, ErrReservationClosed)
	}
	i := r.WaitlistIndex(userID)
	if i < 0 {
		return Result{}, fail(op, r.ID, userID, ErrNotInWaitlist)
	}
	if !r.HasRoom() {
		return Result{}, fail(op, r.ID, userID, ErrReservationFull)
	}
	next := r.Clone()
	next.WaitingList = removeAt(next.WaitingList, i)
	next.Lineup = append(next.Lineup, e.entry(userID, ""))
	return e.settle(next, OutcomePromoted, userID), nil
}

// RemoveFromWaitlist drops a waiting player.  The lineup is untouched.
func (e *Engine) RemoveFromWaitlist(r model.Reservation, userID uint64) (Result, error) {
	const op = "remove_from_waitlist"
	if r.Status.Terminal() {
		return Result{}, fail(op, r.ID, userID, ErrReservationClosed)
	}
	i := r.WaitlistIndex(userID)
	if i < 0 {
		return Result{}, fail(op, r.ID, userID, ErrNotInWaitlist)
	}
	next := r.Clone()
	next.WaitingList = removeAt(next.WaitingList, i)
	return e.settle(next, OutcomeRemovedFromWaitlist, 0), nil
}

// CompleteGame marks the game as played.  No roster change is accepted after.
func (e *Engine) CompleteGame(r model.Reservation, actorRole model.Role) (Result, error) {
	return e.close(r, actorRole, "complete", model.StatusCompleted, OutcomeCompleted)
}

// CancelGame marks the game as called off.  No roster change is accepted after.
func (e *Engine) CancelGame(r model.Reservation, actorRole model.Role) (Result, error) {
	return e.close(r, actorRole, "cancel", model.StatusCancelled, OutcomeCancelled)
}

// AttachSummary records the post-game summary.  It can only happen once and
// only on a completed game.
func (e *Engine) AttachSummary(r model.Reservation, actorRole model.Role, summary model.GameSummary) (Result, error) {
	const op = "attach_summary"
	if actorRole != model.RoleAdmin {
		return Result{}, fail(op, r.ID, 0, ErrForbidden)
	}
	if r.Status != model.StatusCompleted {
		return Result{}, fail(op, r.ID, 0, ErrNotCompleted)
	}
	if r.Summary != nil {
		return Result{}, fail(op, r.ID, 0, ErrSummaryExists)
	}
	next := r.Clone()
	s := summary
	s.Players = append([]model.PlayerSummary(nil), summary.Players...)
	next.Summary = &s
	next.UpdatedAt = e.now()
	return Result{Reservation: next, Outcome: OutcomeSummaryAttached}, nil
}

func (e *Engine) close(r model.Reservation, actorRole model.Role, op string, status model.ReservationStatus, outcome Outcome) (Result, error) {
	if actorRole != model.RoleAdmin {
		return Result{}, fail(op, r.ID, 0, ErrForbidden)
	}
	if r.Status.Terminal() {
		return Result{}, fail(op, r.ID, 0, ErrReservationClosed)
	}
	next := r.Clone()
	next.Status = status
	next.UpdatedAt = e.now()
	return Result{Reservation: next, Outcome: outcome}, nil
}

// dropFromLineup removes userID from a copy of r and, if that opened a
// slot, promotes the head of the waiting list.
func (e *Engine) dropFromLineup(r model.Reservation, userID uint64) (model.Reservation, uint64) {
	next := r.Clone()
	i := next.LineupIndex(userID)
	next.Lineup = append(next.Lineup[:i], next.Lineup[i+1:]...)

	var promoted uint64
	if next.HasRoom() && len(next.WaitingList) > 0 {
		promoted = next.WaitingList[0]
		next.WaitingList = removeAt(next.WaitingList, 0)
		next.Lineup = append(next.Lineup, e.entry(promoted, ""))
	}
	return next, promoted
}

func (e *Engine) entry(userID uint64, name string) model.RosterEntry {
	return model.RosterEntry{
		UserID:     userID,
		PlayerName: strings.TrimSpace(name),
		Status:     model.EntryJoined,
		JoinedAt:   e.now(),
	}
}

// settle recomputes the derived status and stamps the update time.
func (e *Engine) settle(r model.Reservation, outcome Outcome, promoted uint64) Result {
	r.Status = StatusFor(r)
	r.UpdatedAt = e.now()
	if r.Lineup == nil {
		r.Lineup = []model.RosterEntry{}
	}
	if r.WaitingList == nil {
		r.WaitingList = []uint64{}
	}
	return Result{Reservation: r, Outcome: outcome, Promoted: promoted}
}

// StatusFor derives open/full from the lineup size.  Terminal states are
// returned unchanged.
func StatusFor(r model.Reservation) model.ReservationStatus {
	if r.Status.Terminal() {
		return r.Status
	}
	if len(r.Lineup) >= r.MaxPlayers {
		return model.StatusFull
	}
	return model.StatusOpen
}

func removeAt(ids []uint64, i int) []uint64 {
	out := make([]uint64, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}
