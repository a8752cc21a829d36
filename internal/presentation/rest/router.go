// Package rest exposes the scoring use cases over HTTP.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/auth"
)

// Routes are the handlers mounted on the REST mux.
type Routes struct {
	Health   *HealthHandler
	Scoring  *ScoringHandler
	Insights *InsightsHandler
	// Metrics serves the Prometheus exposition; nil leaves /metrics unmounted.
	Metrics http.Handler
	// Tokens enables bearer-token authentication for analysts when set.
	Tokens *auth.TokenService
}

// NewRouter builds the REST handler with request logging, optional
// authentication and, when rateLimit is positive, a per-client token-bucket limiter.
func NewRouter(routes Routes, logger *slog.Logger, rateLimit int) http.Handler {
	mux := http.NewServeMux()
	routes.Health.RegisterRoutes(mux)
	routes.Scoring.RegisterRoutes(mux)
	routes.Insights.RegisterRoutes(mux)
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics)
	}

	// The limiter sits inside authentication so it can key on the token subject.
	var handler http.Handler = mux
	if rateLimit > 0 {
		handler = RateLimitMiddleware(NewRateLimiter(rateLimit))(handler)
	}
	if routes.Tokens != nil {
		handler = AuthMiddleware(routes.Tokens, auth.RoleAnalyst)(handler)
	}
	return LoggingMiddleware(logger)(handler)
}
