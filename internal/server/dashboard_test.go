package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dota-dashboard/internal/api"
	"dota-dashboard/internal/cache"
	"dota-dashboard/internal/config"
	"dota-dashboard/internal/domain"
	"dota-dashboard/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	healthyID = "76561198355928347"
	brokenID  = "76561198220727716"
)

type fakeOpenDota struct {
	mu      sync.Mutex
	calls   map[string]int
	apiKeys []string
}

func (f *fakeOpenDota) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path+"?date="+r.URL.Query().Get("date")]++
	f.apiKeys = append(f.apiKeys, r.URL.Query().Get("api_key"))
	f.mu.Unlock()

	w.Header().Set("X-Rate-Limit-Remaining-Minute", "42")
	w.Header().Set("X-Rate-Limit-Remaining-Month", "900")

	switch r.URL.Path {
	case "/players/395662619/matches":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"match_id": 1, "player_slot": 3, "radiant_win": true, "start_time": 1700000000, "kills": 8, "deaths": 2, "assists": 10},
			{"match_id": 2, "player_slot": 131, "radiant_win": true, "start_time": 1700003600, "kills": 2, "deaths": 6, "assists": 4}
		]`))
	default:
		http.Error(w, "boom", http.StatusInternalServerError)
	}
}

func (f *fakeOpenDota) callCount(path string, days int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[fmt.Sprintf("%s?date=%d", path, days)]
}

func newTestServer(t *testing.T) (*DashboardServer, *fakeOpenDota) {
	t.Helper()

	upstream := &fakeOpenDota{calls: map[string]int{}}
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		OpenDotaBaseURL: srv.URL,
		DefaultSteamIDs: []string{healthyID, brokenID},
		CacheTTL:        time.Minute,
	}
	logger := zerolog.Nop()

	client := api.NewOpenDotaClient(cfg)
	matchSvc := service.NewMatchService(client, cache.NewFromConfig(cfg), logger)
	summarySvc := service.NewSummaryService(matchSvc, logger)

	return NewDashboardServer(summarySvc, matchSvc, client, cfg, logger), upstream
}

func get(t *testing.T, s *DashboardServer, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestGetDashboard_DefaultIDs(t *testing.T) {
	s, upstream := newTestServer(t)

	w := get(t, s, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Periods, 2)
	assert.Equal(t, domain.Weekly, resp.Periods[0].Window)
	assert.Equal(t, domain.Monthly, resp.Periods[1].Window)

	for _, p := range resp.Periods {
		require.Len(t, p.Table.Rows, 1)
		row := p.Table.Rows[0]
		assert.Equal(t, healthyID, row[0])
		assert.Equal(t, float64(2), row[2])
		assert.Equal(t, float64(50), row[5])

		require.Len(t, p.Errors, 1)
		assert.Contains(t, p.Errors[0], "HTTP error for "+brokenID)
		assert.Len(t, p.Charts, 2)
	}

	require.Len(t, resp.Highlights, 2)
	assert.Equal(t, "Top win rates (7 days)", resp.Highlights[0].Title)
	assert.Equal(t, "Most losses by percentage (7 days)", resp.Highlights[1].Title)
	assert.Equal(t, 42, resp.RateLimit.RemainingMinute)

	assert.Equal(t, 1, upstream.callCount("/players/395662619/matches", 7))
	assert.Equal(t, 1, upstream.callCount("/players/395662619/matches", 30))
	assert.Equal(t, 1, upstream.callCount("/players/260461988/matches", 7))
}

func TestGetDashboard_CachesSuccessOnly(t *testing.T) {
	s, upstream := newTestServer(t)

	require.Equal(t, http.StatusOK, get(t, s, "/api/dashboard", nil).Code)
	require.Equal(t, http.StatusOK, get(t, s, "/api/dashboard", nil).Code)

	assert.Equal(t, 1, upstream.callCount("/players/395662619/matches", 7))
	assert.Equal(t, 1, upstream.callCount("/players/395662619/matches", 30))
	assert.Equal(t, 2, upstream.callCount("/players/260461988/matches", 7))
	assert.Equal(t, 2, upstream.callCount("/players/260461988/matches", 30))
}

func TestGetDashboard_BadRequests(t *testing.T) {
	s, upstream := newTestServer(t)

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"no valid ids", "/api/dashboard?ids=abc,xyz", "please enter at least one valid Steam64 ID"},
		{"unknown metric", "/api/dashboard?metric=gpm", "invalid metric parameter"},
		{"non numeric top", "/api/dashboard?top=many", "invalid top parameter"},
		{"top too large", "/api/dashboard?top=51", "invalid top parameter"},
		{"negative top", "/api/dashboard?top=-1", "invalid top parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, tt.target, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	assert.Empty(t, upstream.calls)
}

func TestGetDashboard_APIKeyHeader(t *testing.T) {
	s, upstream := newTestServer(t)

	w := get(t, s, "/api/dashboard?ids="+healthyID, map[string]string{"X-Api-Key": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	require.NotEmpty(t, upstream.apiKeys)
	for _, k := range upstream.apiKeys {
		assert.Equal(t, "secret", k)
	}
}

func TestGetSummaries(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/api/summaries?days=30&ids="+healthyID+"%0Anot-an-id", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.PeriodResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, domain.Monthly, result.Window)
	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "Last 30 days", result.Summaries[0].Label)
	require.NotNil(t, result.Summaries[0].LossRate)
	assert.Equal(t, 50.0, *result.Summaries[0].LossRate)
	assert.Empty(t, result.Errors)

	w = get(t, s, "/api/summaries?days=14", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid days parameter")
}

func TestGetHighlights(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/api/highlights?metric=games&top=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Highlights []struct {
			Title string `json:"title"`
			Table struct {
				Columns []string        `json:"columns"`
				Rows    [][]interface{} `json:"rows"`
			} `json:"table"`
		} `json:"highlights"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Len(t, body.Highlights, 2)
	assert.Equal(t, "Top games (7 days)", body.Highlights[0].Title)
	assert.Equal(t, "games", body.Highlights[0].Table.Columns[len(body.Highlights[0].Table.Columns)-1])
	require.Len(t, body.Highlights[0].Table.Rows, 1)
	require.Len(t, body.Errors, 1)
	assert.True(t, strings.HasPrefix(body.Errors[0], "HTTP error for "+brokenID))
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = get(t, s, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
