package domain

import (
	"fmt"
	"time"
)

type MatchRecord struct {
	MatchID    int64
	StartTime  time.Time
	PlayerSlot int
	RadiantWin bool
	Kills      int
	Deaths     int
	Assists    int
	HeroID     int
	Duration   int // seconds
	GameMode   int
	LobbyType  int
	Win        bool
	Loss       bool
}

type PlayerSummary struct {
	SteamID    string   `json:"steam_id"`
	Label      string   `json:"label"`
	Games      int      `json:"games"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	WinRate    float64  `json:"win_rate"`
	AvgKills   float64  `json:"avg_k"`
	AvgDeaths  float64  `json:"avg_d"`
	AvgAssists float64  `json:"avg_a"`
	BestStreak int      `json:"best_streak"`
	LossRate   *float64 `json:"loss_rate,omitempty"`
}

type ErrorKind string

const (
	ErrorKindInvalidIdentifier ErrorKind = "invalid_identifier"
	ErrorKindNetwork           ErrorKind = "network"
	ErrorKindHTTP              ErrorKind = "http"
	ErrorKindDecode            ErrorKind = "decode"
)

type ErrorEntry struct {
	SteamID string    `json:"steam_id"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

type Window struct {
	Days  int    `json:"days"`
	Label string `json:"label"`
}

func NewWindow(days int) Window {
	return Window{Days: days, Label: fmt.Sprintf("Last %d days", days)}
}

var (
	Weekly  = NewWindow(7)
	Monthly = NewWindow(30)

	// Windows is the fixed set of reporting windows, in display order.
	Windows = []Window{Weekly, Monthly}
)

func WindowFor(days int) (Window, bool) {
	for _, w := range Windows {
		if w.Days == days {
			return w, true
		}
	}
	return Window{}, false
}

// PeriodResult is everything collected for one window. Every input
// identifier shows up in exactly one of Summaries or Errors.
type PeriodResult struct {
	Window    Window          `json:"window"`
	Summaries []PlayerSummary `json:"summaries"`
	Errors    []ErrorEntry    `json:"errors"`
}
