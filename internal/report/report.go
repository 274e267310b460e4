// Package report shapes summaries into the row-oriented tables and bar
// chart series the dashboard front end renders.
package report

import (
	"fmt"
	"strings"

	"dota-dashboard/internal/domain"
	"dota-dashboard/internal/service"
)

var SummaryColumns = []string{
	"steam_id", "label", "games", "wins", "losses",
	"win_rate", "avg_k", "avg_d", "avg_a", "best_streak",
}

var HighlightColumns = []string{"steam_id", "win_rate", "games", "wins", "losses"}

type Table struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

func SummaryTable(summaries []domain.PlayerSummary) Table {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{
			s.SteamID, s.Label, s.Games, s.Wins, s.Losses,
			s.WinRate, s.AvgKills, s.AvgDeaths, s.AvgAssists, s.BestStreak,
		})
	}
	return Table{Columns: SummaryColumns, Rows: rows}
}

// HighlightTable appends the ranked metric as the last column.
func HighlightTable(metric domain.Metric, highlights []service.HighlightRow) Table {
	columns := append(append([]string(nil), HighlightColumns...), string(metric))

	rows := make([][]interface{}, 0, len(highlights))
	for _, h := range highlights {
		rows = append(rows, []interface{}{h.SteamID, h.WinRate, h.Games, h.Wins, h.Losses, h.Value})
	}
	return Table{Columns: columns, Rows: rows}
}

type ChartAxis struct {
	Field string `json:"field"`
	Title string `json:"title"`
}

type BarPoint struct {
	SteamID string  `json:"steam_id"`
	Value   float64 `json:"value"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

type BarChart struct {
	Title   string     `json:"title"`
	Metric  string     `json:"metric"`
	X       ChartAxis  `json:"x"`
	Y       ChartAxis  `json:"y"`
	Tooltip []string   `json:"tooltip"`
	Points  []BarPoint `json:"points"`
}

func NewBarChart(summaries []domain.PlayerSummary, title string, metric domain.Metric) (BarChart, error) {
	chart := BarChart{
		Title:   title,
		Metric:  string(metric),
		X:       ChartAxis{Field: "steam_id", Title: "Steam64 ID"},
		Y:       ChartAxis{Field: string(metric), Title: metric.Title()},
		Tooltip: []string{"steam_id", string(metric), "games", "win_rate"},
		Points:  make([]BarPoint, 0, len(summaries)),
	}

	for _, s := range summaries {
		v, err := s.Value(metric)
		if err != nil {
			return BarChart{}, err
		}
		chart.Points = append(chart.Points, BarPoint{SteamID: s.SteamID, Value: v, Games: s.Games, WinRate: s.WinRate})
	}
	return chart, nil
}

type Period struct {
	Window domain.Window `json:"window"`
	Table  Table         `json:"table"`
	Errors []string      `json:"errors"`
	Info   string        `json:"info,omitempty"`
	Charts []BarChart    `json:"charts"`
}

type Highlight struct {
	Title string `json:"title"`
	Table Table  `json:"table"`
}

type Dashboard struct {
	Periods    []Period    `json:"periods"`
	Highlights []Highlight `json:"highlights"`
}

func BuildPeriod(result domain.PeriodResult) (Period, error) {
	period := Period{
		Window: result.Window,
		Table:  SummaryTable(result.Summaries),
		Errors: ErrorMessages(result.Errors),
		Charts: []BarChart{},
	}

	if len(result.Summaries) == 0 {
		period.Info = fmt.Sprintf("No matches found for the last %d days.", result.Window.Days)
		return period, nil
	}

	for _, c := range []struct {
		title  string
		metric domain.Metric
	}{
		{fmt.Sprintf("Win rate (%d days)", result.Window.Days), domain.MetricWinRate},
		{fmt.Sprintf("Games played (%d days)", result.Window.Days), domain.MetricGames},
	} {
		chart, err := NewBarChart(result.Summaries, c.title, c.metric)
		if err != nil {
			return Period{}, err
		}
		period.Charts = append(period.Charts, chart)
	}
	return period, nil
}

// BuildHighlights ranks the weekly summaries twice: by the chosen metric
// and by loss rate. Nothing is produced for an empty week.
func BuildHighlights(weekly []domain.PlayerSummary, metric domain.Metric, n int) ([]Highlight, error) {
	if len(weekly) == 0 {
		return []Highlight{}, nil
	}

	best, err := service.TopByMetric(weekly, metric, n)
	if err != nil {
		return nil, err
	}
	worst, err := service.TopByMetric(service.WithLossRate(weekly), domain.MetricLossRate, n)
	if err != nil {
		return nil, err
	}

	return []Highlight{
		{Title: fmt.Sprintf("Top %s (7 days)", pluralTitle(metric)), Table: HighlightTable(metric, best)},
		{Title: "Most losses by percentage (7 days)", Table: HighlightTable(domain.MetricLossRate, worst)},
	}, nil
}

// BuildDashboard lays out every window and the weekly highlights.
func BuildDashboard(results []domain.PeriodResult, metric domain.Metric, n int) (Dashboard, error) {
	dashboard := Dashboard{Periods: make([]Period, 0, len(results)), Highlights: []Highlight{}}

	var weekly []domain.PlayerSummary
	for _, r := range results {
		period, err := BuildPeriod(r)
		if err != nil {
			return Dashboard{}, err
		}
		dashboard.Periods = append(dashboard.Periods, period)
		if r.Window.Days == domain.Weekly.Days {
			weekly = r.Summaries
		}
	}

	highlights, err := BuildHighlights(weekly, metric, n)
	if err != nil {
		return Dashboard{}, err
	}
	dashboard.Highlights = highlights
	return dashboard, nil
}

func ErrorMessages(entries []domain.ErrorEntry) []string {
	messages := make([]string, 0, len(entries))
	for _, e := range entries {
		messages = append(messages, e.Message)
	}
	return messages
}

func pluralTitle(metric domain.Metric) string {
	switch metric {
	case domain.MetricWinRate:
		return "win rates"
	case domain.MetricLossRate:
		return "loss rates"
	}
	return strings.ToLower(metric.Title())
}
