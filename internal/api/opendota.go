package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"dota-dashboard/internal/config"
	"dota-dashboard/internal/constants"
	"dota-dashboard/internal/metrics"

	"github.com/valyala/fasthttp"
)

type OpenDotaClient struct {
	baseURL     string
	apiKey      string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	RemainingMinute int       `json:"remaining_minute"`
	RemainingMonth  int       `json:"remaining_month"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewOpenDotaClient(cfg *config.Config) *OpenDotaClient {
	return &OpenDotaClient{
		baseURL: cfg.OpenDotaBaseURL,
		apiKey:  cfg.DotaAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.HTTPMaxConnsPerHost,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: constants.HTTPMaxIdleConnDuration,
		},
		rateLimit: RateLimitInfo{
			RemainingMinute: -1,
			RemainingMonth:  -1,
		},
	}
}

// DefaultAPIKey is the key from configuration, empty when unauthenticated.
func (c *OpenDotaClient) DefaultAPIKey() string {
	return c.apiKey
}

func (c *OpenDotaClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *OpenDotaClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if remaining := string(resp.Header.Peek("X-Rate-Limit-Remaining-Minute")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.RemainingMinute = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Rate-Limit-Remaining-Month")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.RemainingMonth = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// GetPlayerMatches lists the matches an account played in the last days
// days, capped at MatchFetchLimit. An empty apiKey sends the request
// unauthenticated.
func (c *OpenDotaClient) GetPlayerMatches(ctx context.Context, accountID int64, days int, apiKey string) ([]PlayerMatch, error) {
	url := fmt.Sprintf("%s/players/%d/matches", c.baseURL, accountID)
	query := map[string]string{
		"date":  strconv.Itoa(days),
		"limit": strconv.Itoa(constants.MatchFetchLimit),
	}
	if apiKey != "" {
		query["api_key"] = apiKey
	}

	matches, err := doRequest[[]PlayerMatch](ctx, c, url, query)
	if err != nil {
		return nil, err
	}
	return *matches, nil
}

func doRequest[T any](ctx context.Context, client *OpenDotaClient, url string, query map[string]string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	args := req.URI().QueryArgs()
	for k, v := range query {
		args.Set(k, v)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	deadline, _ := ctx.Deadline()

	start := time.Now()
	err := client.client.DoDeadline(req, resp, deadline)
	metrics.ObserveAPIRequest(time.Since(start))
	if err != nil {
		metrics.APIRequests.WithLabelValues("network_error").Inc()
		return nil, &NetworkError{URL: url, Err: err}
	}

	client.updateRateLimit(resp)

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		metrics.APIRequests.WithLabelValues(strconv.Itoa(status)).Inc()
		return nil, &HTTPError{URL: url, StatusCode: status, Body: truncate(resp.Body(), constants.HTTPErrorBodyLimit)}
	}
	metrics.APIRequests.WithLabelValues(strconv.Itoa(status)).Inc()

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	return &result, nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

type PlayerMatch struct {
	MatchID    int64 `json:"match_id"`
	PlayerSlot int   `json:"player_slot"`
	RadiantWin bool  `json:"radiant_win"`
	Duration   int   `json:"duration"`
	GameMode   int   `json:"game_mode"`
	LobbyType  int   `json:"lobby_type"`
	HeroID     int   `json:"hero_id"`
	StartTime  int64 `json:"start_time"`
	Kills      int   `json:"kills"`
	Deaths     int   `json:"deaths"`
	Assists    int   `json:"assists"`
}
