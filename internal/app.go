package internal

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/repopulse/repopulse/internal/config"
	"github.com/repopulse/repopulse/internal/dispatch"
	"github.com/repopulse/repopulse/internal/gitcli"
	"github.com/repopulse/repopulse/internal/repostate"
	"github.com/repopulse/repopulse/internal/watcher"
	"github.com/repopulse/repopulse/pkg/clockfx"
	"github.com/repopulse/repopulse/pkg/promfx"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		clockfx.Module(),
		promfx.Module(),
		//
		// APP MODULES
		config.Module(),
		dispatch.Module(),
		gitcli.Module(),
		watcher.Module(),
		//
		// BUSINESS MODULES
		repostate.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, m *repostate.Manager, logger *zap.Logger) {
			// Listeners attach before the manager starts; hooks run
			// only after every invoke completed.
			n := m.Notifier()
			n.OnRepositoryChanged(func(s repostate.Status) {
				logger.Info("working tree changed",
					zap.String("branch", s.Branch),
					zap.Int("entries", len(s.Entries)))
			})
			n.OnBranchChanged(func() { logger.Info("active branch changed") })
			n.OnHeadChanged(func() { logger.Info("head changed") })

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("repopulse starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("repopulse shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
