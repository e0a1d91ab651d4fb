// Package metrics exposes the bot's Prometheus metrics and health check over HTTP.
// Metrics are defined in their respective packages (client, bot) via promauto
// and land in the default registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Metrics:
//
// Raydium client (pkg/client):
//   - raydium_requests_total{kind, status} (Counter): requests by kind (page, count) and HTTP status
//   - raydium_request_duration_seconds{kind} (Histogram): request duration
//   - raydium_errors_total{class} (Counter): failures by class (client, server, network, decode, api, unexpected)
//
// Bot (pkg/bot):
//   - poolbot_updates_total{kind} (Counter): updates handled by kind (message, callback_query, other)
//   - poolbot_update_failures_total{kind} (Counter): updates whose handling failed or panicked
//
// Example queries:
//
//	# Upstream failure ratio
//	sum(rate(raydium_errors_total[5m])) / sum(rate(raydium_requests_total[5m]))
//
//	# P95 listing latency
//	histogram_quantile(0.95, rate(raydium_request_duration_seconds_bucket{kind="page"}[5m]))

// NewHandler returns the ops router serving /health and /metrics.
func NewHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Serve runs the ops server on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Starting metrics server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
