package fx

import (
	"dota-dashboard/internal/api"
	"dota-dashboard/internal/cache"
	"dota-dashboard/internal/config"
	"dota-dashboard/internal/logger"
	"dota-dashboard/internal/server"
	"dota-dashboard/internal/service"

	"go.uber.org/fx"
)

func ProvideMatchSource(client *api.OpenDotaClient) service.MatchSource {
	return client
}

func ProvideMatchFetcher(matchSvc *service.MatchService) service.MatchFetcher {
	return matchSvc
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(cache.NewFromConfig),
	// api client
	fx.Provide(api.NewOpenDotaClient),
	fx.Provide(ProvideMatchSource),
	// svc
	fx.Provide(service.NewMatchService),
	fx.Provide(ProvideMatchFetcher),
	fx.Provide(service.NewSummaryService),
	// server
	fx.Provide(server.NewDashboardServer),
)
