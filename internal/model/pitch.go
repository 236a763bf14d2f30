package model

import "time"

// Pitch is a bookable playing field.  Reservations copy Name and Location
// when they are created, so later edits to a pitch do not rewrite history.
type Pitch struct {
	ID        uint64    `json:"id"`         // pitches.id
	Name      string    `json:"name"`       // pitches.name
	Location  string    `json:"location"`   // pitches.location
	Surface   string    `json:"surface"`    // pitches.surface (grass, turf, indoor)
	Capacity  int       `json:"capacity"`   // pitches.capacity, default max players for new games
	CreatedAt time.Time `json:"created_at"` // pitches.created_at
}
