package model

import "time"

// Suspension is issued when an admin kicks a player from a lineup.  It is
// produced by the roster engine and persisted in the `suspensions` table.
//
// Fields:
//
//	ID            – uuid assigned when the record is issued.
//	UserID        – suspended player.
//	ReservationID – game the player was kicked from.
//	Days          – suspension length, 1..365.
//	ExpiresAt     – IssuedAt + Days.
type Suspension struct {
	ID            string    `json:"id"`
	UserID        uint64    `json:"user_id"`
	ReservationID uint64    `json:"reservation_id"`
	Days          int       `json:"suspension_days"`
	Reason        string    `json:"reason"`
	IssuedBy      uint64    `json:"issued_by"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ActiveAt reports whether the suspension still applies at t.
func (s Suspension) ActiveAt(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}
