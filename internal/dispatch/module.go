package dispatch

import (
	"context"

	"go.uber.org/fx"

	"github.com/repopulse/repopulse/internal/repostate"
)

func Module() fx.Option {
	return fx.Module(
		"dispatch",
		fx.Provide(
			NewSerial,
			func(d *Serial) repostate.Dispatcher { return d },
		),
		fx.Invoke(func(lc fx.Lifecycle, d *Serial) {
			lc.Append(fx.Hook{
				OnStart: d.Start,
				OnStop: func(_ context.Context) error {
					return d.Stop()
				},
			})
		}),
	)
}
