package roster

import (
	"errors"
	"fmt"
)

// Sentinel failures, one per violated precondition.  Every error returned by
// the Engine wraps exactly one of them, so callers branch with errors.Is.
var (
	ErrAlreadyJoined             = errors.New("player already joined")
	ErrNotJoined                 = errors.New("player has not joined")
	ErrReservationClosed         = errors.New("reservation is closed")
	ErrForbidden                 = errors.New("forbidden")
	ErrPlayerNotInGame           = errors.New("player is not in the lineup")
	ErrInvalidSuspensionDuration = errors.New("suspension must be between 1 and 365 days")
	ErrMissingReason             = errors.New("reason is required")
	ErrNotInWaitlist             = errors.New("player is not on the waiting list")
	ErrReservationFull           = errors.New("reservation is full")
	ErrNotCompleted              = errors.New("reservation is not completed")
	ErrSummaryExists             = errors.New("summary already attached")
)

// Error carries the context of a rejected operation.
type Error struct {
	Op            string // join, leave, kick, promote, ...
	ReservationID uint64
	UserID        uint64
	Err           error
}

func (e *Error) Error() string {
	if e.UserID == 0 {
		return fmt.Sprintf("%s reservation %d: %v", e.Op, e.ReservationID, e.Err)
	}
	return fmt.Sprintf("%s reservation %d user %d: %v", e.Op, e.ReservationID, e.UserID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(op string, reservationID, userID uint64, err error) error {
	return &Error{Op: op, ReservationID: reservationID, UserID: userID, Err: err}
}
