package service

import (
	"context"
	"fmt"
	"time"

	"dota-dashboard/internal/api"
	"dota-dashboard/internal/cache"
	"dota-dashboard/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type MatchSource interface {
	GetPlayerMatches(ctx context.Context, accountID int64, days int, apiKey string) ([]api.PlayerMatch, error)
}

type MatchService struct {
	source MatchSource
	cache  *cache.MatchCache
	group  singleflight.Group
	logger zerolog.Logger
}

func NewMatchService(source MatchSource, matchCache *cache.MatchCache, logger zerolog.Logger) *MatchService {
	return &MatchService{source: source, cache: matchCache, logger: logger}
}

// FetchMatches returns the account's matches for the window with outcomes
// derived. Results are served from the cache while fresh; concurrent misses
// on the same key share one remote call. Failures are not cached.
func (s *MatchService) FetchMatches(ctx context.Context, accountID int64, days int, apiKey string) ([]domain.MatchRecord, error) {
	key := cache.Key{AccountID: accountID, Days: days}

	if records, ok := s.cache.Get(key); ok {
		s.logger.Debug().Int64("account_id", accountID).Int("days", days).Int("match_count", len(records)).Msg("returning cached matches")
		return records, nil
	}

	// Shared fetches outlive the caller that started them; the client's
	// per-request deadline still applies.
	fetchCtx := context.WithoutCancel(ctx)

	v, err, shared := s.group.Do(fmt.Sprintf("%d/%d", accountID, days), func() (interface{}, error) {
		if records, ok := s.cache.Get(key); ok {
			return records, nil
		}

		s.logger.Info().Int64("account_id", accountID).Int("days", days).Msg("fetching matches from opendota")

		raw, err := s.source.GetPlayerMatches(fetchCtx, accountID, days, apiKey)
		if err != nil {
			s.logger.Error().Err(err).Int64("account_id", accountID).Int("days", days).Msg("failed to fetch matches")
			return nil, err
		}

		records := domain.DeriveOutcomes(toMatchRecords(raw))
		s.cache.Set(key, records)

		s.logger.Debug().Int64("account_id", accountID).Int("days", days).Int("match_count", len(records)).Msg("matches fetched successfully")
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug().Int64("account_id", accountID).Int("days", days).Msg("shared in-flight fetch")
	}

	records := v.([]domain.MatchRecord)
	return append([]domain.MatchRecord(nil), records...), nil
}

// PurgeExpired drops stale cache entries so the cache stays bounded by the
// ids seen within one TTL.
func (s *MatchService) PurgeExpired() int {
	removed := s.cache.Purge()
	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Msg("purged expired cache entries")
	}
	return removed
}

func toMatchRecords(matches []api.PlayerMatch) []domain.MatchRecord {
	records := make([]domain.MatchRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, domain.MatchRecord{
			MatchID:    m.MatchID,
			StartTime:  time.Unix(m.StartTime, 0).UTC(),
			PlayerSlot: m.PlayerSlot,
			RadiantWin: m.RadiantWin,
			Kills:      m.Kills,
			Deaths:     m.Deaths,
			Assists:    m.Assists,
			HeroID:     m.HeroID,
			Duration:   m.Duration,
			GameMode:   m.GameMode,
			LobbyType:  m.LobbyType,
		})
	}
	return records
}
