package game

import (
	"sort"
	"time"

	"stockgame/internal/models"
)

// LeaderboardEntry is one ranked row of a room's leaderboard.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	PlayerID       string  `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	Score          float64 `json:"score"`
	Grade          string  `json:"grade"`
	PortfolioValue float64 `json:"portfolio_value"`
	TotalReturnPct float64 `json:"total_return_pct"`
	CurrentDay     int     `json:"current_day"`
	IsFinished     bool    `json:"is_finished"`
}

// Leaderboard ranks players by score descending, ties broken by
// finished_at ascending (earlier finisher ranks higher), then by join
// time so recomputing from unchanged inputs always yields an identical
// ordering. Ranks are 1-indexed and contiguous.
func Leaderboard(players []models.Player) []LeaderboardEntry {
	ranked := make([]models.Player, len(players))
	copy(ranked, players)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		fi, fj := finishTime(&ranked[i]), finishTime(&ranked[j])
		if !fi.Equal(fj) {
			return fi.Before(fj)
		}
		return ranked[i].JoinedAt.Before(ranked[j].JoinedAt)
	})

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for i, p := range ranked {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			PlayerID:       p.ID.String(),
			PlayerName:     p.PlayerName,
			Score:          p.Score,
			Grade:          p.Grade,
			PortfolioValue: p.PortfolioValue,
			TotalReturnPct: p.TotalReturnPct,
			CurrentDay:     p.CurrentDay,
			IsFinished:     p.IsFinished,
		})
	}
	return entries
}

// finishTime orders unfinished players after any finished one.
func finishTime(p *models.Player) time.Time {
	if p.FinishedAt == nil {
		return time.Unix(1<<62-1, 0)
	}
	return *p.FinishedAt
}
