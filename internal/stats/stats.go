// Package stats derives career numbers from completed reservations.
package stats

import (
	"math"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// UserStats is a player's career aggregate.  Interceptions are not recorded
// on reservations and stay 0.
type UserStats struct {
	Matches       int `json:"matches"`
	Wins          int `json:"wins"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	CleanSheets   int `json:"clean_sheets"`
	MVP           int `json:"mvp"`
	Interceptions int `json:"interceptions"`
	WinPercentage int `json:"win_percentage"`
}

// ForUser scans every completed reservation whose lineup holds userID.
//
// Highlights and the summary are both counted: a goal recorded in each
// source adds two.  The same goes for MVP via a highlight and via
// summary.MVP.
func ForUser(reservations []model.Reservation, userID uint64) UserStats {
	var s UserStats
	for _, r := range reservations {
		if r.Status != model.StatusCompleted || !r.InLineup(userID) {
			continue
		}
		s.add(r, userID)
	}
	s.finish()
	return s
}

func (s *UserStats) add(r model.Reservation, userID uint64) {
	s.Matches++

	for _, h := range r.Highlights {
		if h.PlayerID != userID {
			continue
		}
		switch h.Type {
		case model.HighlightGoal:
			s.Goals++
		case model.HighlightAssist:
			s.Assists++
		case model.HighlightMVP:
			s.MVP++
		case model.HighlightCleanSheet:
			s.CleanSheets++
		}
	}

	if r.Summary == nil {
		return
	}
	for _, p := range r.Summary.Players {
		if p.UserID != userID {
			continue
		}
		s.Goals += p.Goals
		s.Assists += p.Assists
		if p.CleanSheet {
			s.CleanSheets++
		}
		if p.Won {
			s.Wins++
		}
		break
	}
	if r.Summary.MVP != 0 && r.Summary.MVP == userID {
		s.MVP++
	}
}

func (s *UserStats) finish() {
	if s.Matches == 0 {
		s.WinPercentage = 0
		return
	}
	s.WinPercentage = int(math.Round(float64(s.Wins) / float64(s.Matches) * 100))
}
