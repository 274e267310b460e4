package service

import (
	"math"
	"sort"

	"dota-dashboard/internal/domain"
)

// Summarize reduces one player's matches for a window. Records must
// already carry derived outcomes.
func Summarize(records []domain.MatchRecord, steamID, label string) domain.PlayerSummary {
	summary := domain.PlayerSummary{
		SteamID: steamID,
		Label:   label,
		Games:   len(records),
	}
	if summary.Games == 0 {
		return summary
	}

	var kills, deaths, assists int
	for _, r := range records {
		if r.Win {
			summary.Wins++
		} else {
			summary.Losses++
		}
		kills += r.Kills
		deaths += r.Deaths
		assists += r.Assists
	}

	games := float64(summary.Games)
	summary.WinRate = round1(float64(summary.Wins) / games * 100)
	summary.AvgKills = round1(float64(kills) / games)
	summary.AvgDeaths = round1(float64(deaths) / games)
	summary.AvgAssists = round1(float64(assists) / games)
	summary.BestStreak = bestWinStreak(records)

	return summary
}

// bestWinStreak scans matches oldest first. Matches sharing a start time
// keep their input order.
func bestWinStreak(records []domain.MatchRecord) int {
	ordered := append([]domain.MatchRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	best, current := 0, 0
	for _, r := range ordered {
		if !r.Win {
			current = 0
			continue
		}
		current++
		if current > best {
			best = current
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
