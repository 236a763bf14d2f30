package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// Metric selects the column a leaderboard is ranked by.
type Metric string

const (
	MetricGoals         Metric = "goals"
	MetricAssists       Metric = "assists"
	MetricWins          Metric = "wins"
	MetricMVP           Metric = "mvp"
	MetricCleanSheets   Metric = "clean_sheets"
	MetricWinPercentage Metric = "win_percentage"
	MetricMatches       Metric = "matches"
)

// ParseMetric accepts a metric name case-insensitively; empty means goals.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return MetricGoals, nil
	}
	switch m {
	case MetricGoals, MetricAssists, MetricWins, MetricMVP, MetricCleanSheets, MetricWinPercentage, MetricMatches:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

func (m Metric) value(s UserStats) int {
	switch m {
	case MetricAssists:
		return s.Assists
	case MetricWins:
		return s.Wins
	case MetricMVP:
		return s.MVP
	case MetricCleanSheets:
		return s.CleanSheets
	case MetricWinPercentage:
		return s.WinPercentage
	case MetricMatches:
		return s.Matches
	default:
		return s.Goals
	}
}

// Standing is one leaderboard row.
type Standing struct {
	Rank       int       `json:"rank"`
	UserID     uint64    `json:"user_id"`
	PlayerName string    `json:"player_name"`
	Value      int       `json:"value"`
	Stats      UserStats `json:"stats"`
}

// Leaderboard ranks every player who appears in a completed lineup.  Ties
// on the metric go to the player with more matches, then the lower user ID.
// Players sharing a value and match count share a rank.  limit <= 0 returns
// everyone.
func Leaderboard(reservations []model.Reservation, metric Metric, limit int) []Standing {
	names := map[uint64]string{}
	var players []uint64
	for _, r := range reservations {
		if r.Status != model.StatusCompleted {
			continue
		}
		for _, e := range r.Lineup {
			if _, ok := names[e.UserID]; !ok {
				players = append(players, e.UserID)
			}
			if e.PlayerName != "" || names[e.UserID] == "" {
				names[e.UserID] = e.PlayerName
			}
		}
	}

	rows := make([]Standing, 0, len(players))
	for _, id := range players {
		s := ForUser(reservations, id)
		rows = append(rows, Standing{UserID: id, PlayerName: names[id], Value: metric.value(s), Stats: s})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.Stats.Matches != b.Stats.Matches {
			return a.Stats.Matches > b.Stats.Matches
		}
		return a.UserID < b.UserID
	})

	for i := range rows {
		rows[i].Rank = i + 1
		if i > 0 && rows[i].Value == rows[i-1].Value && rows[i].Stats.Matches == rows[i-1].Stats.Matches {
			rows[i].Rank = rows[i-1].Rank
		}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
