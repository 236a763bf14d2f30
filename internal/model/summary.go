package model

// HighlightType tags a single per-player event of a finished game.
type HighlightType string

const (
	HighlightGoal       HighlightType = "goal"
	HighlightAssist     HighlightType = "assist"
	HighlightMVP        HighlightType = "mvp"
	HighlightCleanSheet HighlightType = "cleanSheet"
)

// Highlight attributes one event to a player.
type Highlight struct {
	PlayerID uint64        `json:"player_id"`
	Type     HighlightType `json:"type"`
}

// PlayerSummary is one player's line in a GameSummary.
type PlayerSummary struct {
	UserID     uint64 `json:"user_id"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	CleanSheet bool   `json:"clean_sheet"`
	Won        bool   `json:"won"`
}

// GameSummary is the post-game record of a completed reservation.  MVP is
// the user ID of the most valuable player, or 0 when none was picked.
type GameSummary struct {
	HomeScore int             `json:"home_score"`
	AwayScore int             `json:"away_score"`
	MVP       uint64          `json:"mvp,omitempty"`
	Players   []PlayerSummary `json:"players,omitempty"`
}
