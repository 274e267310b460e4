package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dota-dashboard/internal/api"
	"dota-dashboard/internal/config"
	"dota-dashboard/internal/domain"
	"dota-dashboard/internal/middleware"
	"dota-dashboard/internal/report"
	"dota-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type DashboardServer struct {
	summarySvc *service.SummaryService
	matchSvc   *service.MatchService
	client     *api.OpenDotaClient
	cfg        *config.Config
	validate   *validator.Validate
	logger     zerolog.Logger
}

func NewDashboardServer(summarySvc *service.SummaryService, matchSvc *service.MatchService, client *api.OpenDotaClient, cfg *config.Config, logger zerolog.Logger) *DashboardServer {
	return &DashboardServer{
		summarySvc: summarySvc,
		matchSvc:   matchSvc,
		client:     client,
		cfg:        cfg,
		validate:   validator.New(),
		logger:     logger,
	}
}

type dashboardQuery struct {
	IDs    string
	APIKey string
	Metric string `validate:"required,oneof=win_rate loss_rate games wins losses avg_k avg_d avg_a best_streak"`
	Top    int    `validate:"gte=0,lte=50"`
	Days   int    `validate:"oneof=7 30"`
}

type dashboardResponse struct {
	report.Dashboard
	RateLimit api.RateLimitInfo `json:"rate_limit"`
}

func (s *DashboardServer) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.GetDashboard)
		r.Get("/summaries", s.GetSummaries)
		r.Get("/highlights", s.GetHighlights)
	})
	return r
}

// Handler is Routes behind CORS, ready for http.Server.
func (s *DashboardServer) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(s.Routes())
}

func (s *DashboardServer) Health(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"timestamp":  time.Now().UTC(),
		"rate_limit": s.client.GetRateLimitInfo(),
	})
}

func (s *DashboardServer) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}
	s.matchSvc.PurgeExpired()

	results, err := s.summarySvc.CollectAll(r.Context(), q.IDs, q.APIKey)
	if err != nil {
		s.collectError(w, r, err)
		return
	}

	dashboard, err := report.BuildDashboard(results, domain.Metric(q.Metric), q.Top)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build dashboard")
		s.errorResponse(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	s.jsonResponse(w, http.StatusOK, dashboardResponse{Dashboard: dashboard, RateLimit: s.client.GetRateLimitInfo()})
}

func (s *DashboardServer) GetSummaries(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}
	s.matchSvc.PurgeExpired()

	window, _ := domain.WindowFor(q.Days)

	result, err := s.summarySvc.CollectWindow(r.Context(), q.IDs, window, q.APIKey)
	if err != nil {
		s.collectError(w, r, err)
		return
	}
	result.Summaries = service.WithLossRate(result.Summaries)

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *DashboardServer) GetHighlights(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}
	s.matchSvc.PurgeExpired()

	result, err := s.summarySvc.CollectWindow(r.Context(), q.IDs, domain.Weekly, q.APIKey)
	if err != nil {
		s.collectError(w, r, err)
		return
	}

	highlights, err := report.BuildHighlights(result.Summaries, domain.Metric(q.Metric), q.Top)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build highlights")
		s.errorResponse(w, http.StatusInternalServerError, "failed to build highlights")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"highlights": highlights,
		"errors":     report.ErrorMessages(result.Errors),
	})
}

// parseQuery fills in defaults and validates. It writes the 400 itself.
func (s *DashboardServer) parseQuery(w http.ResponseWriter, r *http.Request) (dashboardQuery, bool) {
	values := r.URL.Query()

	q := dashboardQuery{
		IDs:    values.Get("ids"),
		APIKey: values.Get("api_key"),
		Metric: strings.ToLower(strings.TrimSpace(values.Get("metric"))),
		Days:   domain.Weekly.Days,
	}
	if q.IDs == "" {
		q.IDs = s.cfg.DefaultIDsText()
	}
	if q.APIKey == "" {
		q.APIKey = r.Header.Get("X-Api-Key")
	}
	if q.APIKey == "" {
		q.APIKey = s.client.DefaultAPIKey()
	}
	if q.Metric == "" {
		q.Metric = string(domain.MetricWinRate)
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"top", &q.Top},
		{"days", &q.Days},
	} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid "+p.name+" parameter")
			return dashboardQuery{}, false
		}
		*p.dst = v
	}

	if err := s.validate.Struct(q); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return dashboardQuery{}, false
	}
	return q, true
}

func (s *DashboardServer) collectError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNoValidIdentifiers) {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to collect summaries")
	s.errorResponse(w, http.StatusInternalServerError, "failed to collect summaries")
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return "invalid " + strings.ToLower(fe.Field()) + " parameter"
}

func (s *DashboardServer) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *DashboardServer) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
