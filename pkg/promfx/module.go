// Package promfx provides the prometheus registry and, when configured,
// a small HTTP server exposing it.
package promfx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-core-fx/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"promfx",
		logger.WithNamedLogger("promfx"),
		fx.Provide(
			NewRegistry,
			func(r *prometheus.Registry) prometheus.Registerer { return r },
		),
		fx.Invoke(run),
	)
}

// NewRegistry creates the application registry with standard process and
// Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func run(lc fx.Lifecycle, cfg Config, reg *prometheus.Registry, logger *zap.Logger) {
	if cfg.Address == "" {
		logger.Info("metrics endpoint disabled")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				logger.Info("metrics endpoint listening", zap.String("address", cfg.Address))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics endpoint failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
