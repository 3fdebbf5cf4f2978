// Package serve exposes the aggregation engine over HTTP so chart frontends
// can query categories, series, statistics, and drill-downs directly.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/annolab/pivot/internal/contract"
)

// Server wires the aggregation handlers to a base config and store manager.
// Per-request query parameters override the base config on a clone, so
// concurrent requests never race.
type Server struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// NewServer creates a server bound to the given config and store manager.
func NewServer(cfg *contract.Config, mgr contract.StoreManager) *Server {
	return &Server{baseCfg: cfg, mgr: mgr}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(requestLogger)

	mux.Get("/healthz", s.handleHealth)
	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/categories", s.handleCategories)
		rt.Get("/timeseries", s.handleTimeseries)
		rt.Get("/stats", s.handleStats)
		rt.Post("/drilldown", s.handleDrilldown)
	})

	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.baseCfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.baseCfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
