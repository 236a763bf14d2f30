package model

import (
	"strings"
	"time"
)

// DateLayout and TimeLayout are the wire formats of Reservation.Date and
// Reservation.StartTime/EndTime.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ReservationStatus is the lifecycle state of a reservation.  open and full
// are derived from the lineup size; completed and cancelled are terminal and
// only set by an admin action.
type ReservationStatus string

const (
	StatusOpen      ReservationStatus = "open"
	StatusFull      ReservationStatus = "full"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Terminal reports whether the status no longer accepts roster changes.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// EntryStatus is the state of a RosterEntry.  Players who leave are removed
// from the lineup, so "joined" is the only value in use.
type EntryStatus string

const EntryJoined EntryStatus = "joined"

// RosterEntry is one player's place in a reservation's lineup.  PlayerName
// is copied at join time.
type RosterEntry struct {
	UserID     uint64      `json:"user_id"`
	PlayerName string      `json:"player_name"`
	Status     EntryStatus `json:"status"`
	JoinedAt   time.Time   `json:"joined_at"`
}

// Reservation is one bookable game on a pitch.
//
// Fields:
//
//	ID          – reservations.id
//	PitchID     – pitch the game is played on; PitchName and Location are
//	              copied from the pitch catalog at creation.
//	Date        – calendar date, YYYY-MM-DD.
//	StartTime   – kick-off, HH:MM; together with Date it defines the game instant.
//	MaxPlayers  – capacity, fixed at creation.
//	Lineup      – joined players in join order (creator conventionally first).
//	WaitingList – FIFO queue of user IDs waiting for a slot.
//	Summary     – post-game record, attached at most once after completion.
//	Highlights  – per-player event tags, an older source of stats.
type Reservation struct {
	ID          uint64            `json:"id"`
	PitchID     uint64            `json:"pitch_id"`
	PitchName   string            `json:"pitch_name"`
	Location    string            `json:"location"`
	Date        string            `json:"date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time,omitempty"`
	MaxPlayers  int               `json:"max_players"`
	Lineup      []RosterEntry     `json:"lineup"`
	WaitingList []uint64          `json:"waiting_list"`
	Status      ReservationStatus `json:"status"`
	Summary     *GameSummary      `json:"summary,omitempty"`
	Highlights  []Highlight       `json:"highlights,omitempty"`
	CreatedBy   uint64            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Clone returns a deep copy so that callers can treat reservations as
// immutable values.
func (r Reservation) Clone() Reservation {
	out := r
	if r.Lineup != nil {
		out.Lineup = append([]RosterEntry(nil), r.Lineup...)
	}
	if r.WaitingList != nil {
		out.WaitingList = append([]uint64(nil), r.WaitingList...)
	}
	if r.Highlights != nil {
		out.Highlights = append([]Highlight(nil), r.Highlights...)
	}
	if r.Summary != nil {
		s := *r.Summary
		if r.Summary.Players != nil {
			s.Players = append([]PlayerSummary(nil), r.Summary.Players...)
		}
		out.Summary = &s
	}
	return out
}

// LineupIndex returns the position of userID in the lineup or -1.
func (r Reservation) LineupIndex(userID uint64) int {
	for i, e := range r.Lineup {
		if e.UserID == userID {
			return i
		}
	}
	return -1
}

// WaitlistIndex returns the position of userID in the waiting list or -1.
func (r Reservation) WaitlistIndex(userID uint64) int {
	for i, id := range r.WaitingList {
		if id == userID {
			return i
		}
	}
	return -1
}

func (r Reservation) InLineup(userID uint64) bool   { return r.LineupIndex(userID) >= 0 }
func (r Reservation) InWaitlist(userID uint64) bool { return r.WaitlistIndex(userID) >= 0 }

// HasRoom reports whether the lineup is below capacity.
func (r Reservation) HasRoom() bool { return len(r.Lineup) < r.MaxPlayers }

// StartsAt combines Date and StartTime into an instant in loc.  A missing or
// malformed start time falls back to midnight; ok is false only when Date
// itself cannot be parsed.
func (r Reservation) StartsAt(loc *time.Location) (t time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(r.Date), loc)
	if err != nil {
		return time.Time{}, false
	}
	clock, err := time.Parse(TimeLayout, strings.TrimSpace(r.StartTime))
	if err != nil {
		return day, true
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), true
}

// ParseDate validates a YYYY-MM-DD string and returns it normalised.
func ParseDate(s string) (string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}

// ParseClock validates an HH:MM string and returns it normalised.
func ParseClock(s string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(TimeLayout), nil
}
