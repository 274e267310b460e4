package service

import (
	"sort"

	"dota-dashboard/internal/constants"
	"dota-dashboard/internal/domain"
)

type HighlightRow struct {
	SteamID string        `json:"steam_id"`
	WinRate float64       `json:"win_rate"`
	Games   int           `json:"games"`
	Wins    int           `json:"wins"`
	Losses  int           `json:"losses"`
	Metric  domain.Metric `json:"metric"`
	Value   float64       `json:"value"`
}

// TopByMetric returns the n best summaries by metric, highest first. Ties
// keep their input order. n <= 0 falls back to DefaultTopN.
func TopByMetric(summaries []domain.PlayerSummary, metric domain.Metric, n int) ([]HighlightRow, error) {
	if n <= 0 {
		n = constants.DefaultTopN
	}

	type ranked struct {
		summary domain.PlayerSummary
		value   float64
	}

	if _, err := (domain.PlayerSummary{}).Value(metric); err != nil {
		return nil, err
	}

	rows := make([]ranked, 0, len(summaries))
	for _, s := range summaries {
		v, _ := s.Value(metric)
		rows = append(rows, ranked{summary: s, value: v})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].value > rows[j].value
	})

	if len(rows) > n {
		rows = rows[:n]
	}

	top := make([]HighlightRow, 0, len(rows))
	for _, r := range rows {
		top = append(top, HighlightRow{
			SteamID: r.summary.SteamID,
			WinRate: r.summary.WinRate,
			Games:   r.summary.Games,
			Wins:    r.summary.Wins,
			Losses:  r.summary.Losses,
			Metric:  metric,
			Value:   r.value,
		})
	}
	return top, nil
}

// WithLossRate returns copies of summaries carrying a stored loss rate.
// The input is left untouched.
func WithLossRate(summaries []domain.PlayerSummary) []domain.PlayerSummary {
	enriched := make([]domain.PlayerSummary, len(summaries))
	for i, s := range summaries {
		rate := s.ComputedLossRate()
		s.LossRate = &rate
		enriched[i] = s
	}
	return enriched
}
