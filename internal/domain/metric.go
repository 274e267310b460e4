package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMetric = errors.New("unknown metric")

type Metric string

const (
	MetricWinRate    Metric = "win_rate"
	MetricLossRate   Metric = "loss_rate"
	MetricGames      Metric = "games"
	MetricWins       Metric = "wins"
	MetricLosses     Metric = "losses"
	MetricAvgKills   Metric = "avg_k"
	MetricAvgDeaths  Metric = "avg_d"
	MetricAvgAssists Metric = "avg_a"
	MetricBestStreak Metric = "best_streak"
)

var Metrics = []Metric{
	MetricWinRate, MetricLossRate, MetricGames, MetricWins, MetricLosses,
	MetricAvgKills, MetricAvgDeaths, MetricAvgAssists, MetricBestStreak,
}

func ParseMetric(raw string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, raw)
}

// Title turns "win_rate" into "Win Rate" for axis labels.
func (m Metric) Title() string {
	words := strings.Split(string(m), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ComputedLossRate is losses/games*100, or 0 without games.
func (s PlayerSummary) ComputedLossRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Losses) / float64(s.Games) * 100
}

func (s PlayerSummary) Value(m Metric) (float64, error) {
	switch m {
	case MetricWinRate:
		return s.WinRate, nil
	case MetricLossRate:
		if s.LossRate != nil {
			return *s.LossRate, nil
		}
		return s.ComputedLossRate(), nil
	case MetricGames:
		return float64(s.Games), nil
	case MetricWins:
		return float64(s.Wins), nil
	case MetricLosses:
		return float64(s.Losses), nil
	case MetricAvgKills:
		return s.AvgKills, nil
	case MetricAvgDeaths:
		return s.AvgDeaths, nil
	case MetricAvgAssists:
		return s.AvgAssists, nil
	case MetricBestStreak:
		return float64(s.BestStreak), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
}
