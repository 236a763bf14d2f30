// Package queue defines the messages exchanged over RabbitMQ and the
// background consumer that records them.
package queue

// Queue names.  Both queues are durable and messages are persistent.
const (
	RosterChangedQueue    = "roster.changed"
	SuspensionIssuedQueue = "suspension.issued"
)

// RosterChangedEvent is published after every successful roster mutation:
// join, leave, kick, promotion, waitlist removal, completion, cancellation
// and summary attachment.  It carries enough for consumers to log or notify
// without reading the database.
type RosterChangedEvent struct {
	EventID       string `json:"event_id"`
	ReservationID uint64 `json:"reservation_id"`
	PitchName     string `json:"pitch_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	Outcome       string `json:"outcome"`
	UserID        uint64 `json:"user_id,omitempty"`
	ActorID       uint64 `json:"actor_id"`
	Promoted      uint64 `json:"promoted,omitempty"`
	Status        string `json:"status"`
	LineupSize    int    `json:"lineup_size"`
	MaxPlayers    int    `json:"max_players"`
	WaitlistSize  int    `json:"waitlist_size"`
	OccurredAt    string `json:"occurred_at"`
}

// SuspensionIssuedEvent is published when a kick produces a suspension.
type SuspensionIssuedEvent struct {
	EventID       string `json:"event_id"`
	SuspensionID  string `json:"suspension_id"`
	UserID        uint64 `json:"user_id"`
	ReservationID uint64 `json:"reservation_id"`
	Days          int    `json:"suspension_days"`
	Reason        string `json:"reason"`
	IssuedBy      uint64 `json:"issued_by"`
	IssuedAt      string `json:"issued_at"`
	ExpiresAt     string `json:"expires_at"`
}
