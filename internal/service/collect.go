package service

import (
	"context"
	"errors"
	"fmt"

	"dota-dashboard/internal/api"
	"dota-dashboard/internal/domain"
	"dota-dashboard/internal/metrics"
	"dota-dashboard/internal/steamid"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNoValidIdentifiers is returned before any fetch when the input holds
// no usable Steam64 id.
var ErrNoValidIdentifiers = errors.New("please enter at least one valid Steam64 ID")

type MatchFetcher interface {
	FetchMatches(ctx context.Context, accountID int64, days int, apiKey string) ([]domain.MatchRecord, error)
}

type SummaryService struct {
	fetcher MatchFetcher
	logger  zerolog.Logger
}

func NewSummaryService(fetcher MatchFetcher, logger zerolog.Logger) *SummaryService {
	return &SummaryService{fetcher: fetcher, logger: logger}
}

// CollectAll normalizes the raw id list and builds one PeriodResult per
// reporting window, in domain.Windows order.
func (s *SummaryService) CollectAll(ctx context.Context, rawIDs string, apiKey string) ([]domain.PeriodResult, error) {
	ids := steamid.NormalizeIdentifierList(rawIDs)
	if len(ids) == 0 {
		s.logger.Warn().Msg("no valid steam64 ids in input")
		return nil, ErrNoValidIdentifiers
	}

	results := make([]domain.PeriodResult, len(domain.Windows))
	g, gCtx := errgroup.WithContext(ctx)
	for i, window := range domain.Windows {
		i, window := i, window
		g.Go(func() error {
			results[i] = s.CollectSummaries(gCtx, ids, window, apiKey)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// CollectWindow is CollectAll for a single window.
func (s *SummaryService) CollectWindow(ctx context.Context, rawIDs string, window domain.Window, apiKey string) (domain.PeriodResult, error) {
	ids := steamid.NormalizeIdentifierList(rawIDs)
	if len(ids) == 0 {
		s.logger.Warn().Msg("no valid steam64 ids in input")
		return domain.PeriodResult{}, ErrNoValidIdentifiers
	}

	return s.CollectSummaries(ctx, ids, window, apiKey), nil
}

// CollectSummaries walks ids in order, one at a time. Each id ends up as
// either a summary or an error entry; a failing id never stops the batch.
func (s *SummaryService) CollectSummaries(ctx context.Context, ids []string, window domain.Window, apiKey string) domain.PeriodResult {
	result := domain.PeriodResult{
		Window:    window,
		Summaries: []domain.PlayerSummary{},
		Errors:    []domain.ErrorEntry{},
	}

	for _, id := range ids {
		accountID, err := steamid.ToAccountID(id)
		if err != nil {
			result.Errors = append(result.Errors, s.errorEntry(id, window, err))
			continue
		}

		records, err := s.fetcher.FetchMatches(ctx, accountID, window.Days, apiKey)
		if err != nil {
			result.Errors = append(result.Errors, s.errorEntry(id, window, err))
			continue
		}

		result.Summaries = append(result.Summaries, Summarize(records, id, window.Label))
	}

	s.logger.Info().
		Int("days", window.Days).
		Int("summaries", len(result.Summaries)).
		Int("errors", len(result.Errors)).
		Msg("collected period summaries")

	return result
}

func (s *SummaryService) errorEntry(steamID string, window domain.Window, err error) domain.ErrorEntry {
	entry := classify(steamID, err)
	metrics.SummaryErrors.WithLabelValues(string(entry.Kind)).Inc()
	s.logger.Warn().Err(err).Str("steam_id", steamID).Int("days", window.Days).Str("kind", string(entry.Kind)).Msg("summary skipped")
	return entry
}

func classify(steamID string, err error) domain.ErrorEntry {
	var (
		convErr   *steamid.ConversionError
		httpErr   *api.HTTPError
		decodeErr *api.DecodeError
	)

	switch {
	case errors.As(err, &convErr):
		return domain.ErrorEntry{
			SteamID: steamID,
			Kind:    domain.ErrorKindInvalidIdentifier,
			Message: fmt.Sprintf("Invalid Steam64 ID: %s", steamID),
		}
	case errors.As(err, &httpErr):
		return domain.ErrorEntry{
			SteamID: steamID,
			Kind:    domain.ErrorKindHTTP,
			Message: fmt.Sprintf("HTTP error for %s: %v", steamID, httpErr),
		}
	case errors.As(err, &decodeErr):
		return domain.ErrorEntry{
			SteamID: steamID,
			Kind:    domain.ErrorKindDecode,
			Message: fmt.Sprintf("Invalid response for %s: %v", steamID, decodeErr),
		}
	default:
		return domain.ErrorEntry{
			SteamID: steamID,
			Kind:    domain.ErrorKindNetwork,
			Message: fmt.Sprintf("Network error for %s: %v", steamID, err),
		}
	}
}
