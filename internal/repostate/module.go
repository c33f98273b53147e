package repostate

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"repostate",
		logger.WithNamedLogger("repostate"),
		fx.Provide(NewManager),
		fx.Invoke(func(lc fx.Lifecycle, m *Manager) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					if err := m.Initialize(); err != nil {
						return err
					}
					return m.Start()
				},
				OnStop: func(_ context.Context) error {
					return m.Stop()
				},
			})
		}),
	)
}
