// Package clockfx provides the application clock. Production code gets
// the real clock; tests construct components with clockwork.NewFakeClock
// so timing-sensitive behavior is deterministic.
package clockfx

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"clockfx",
		fx.Provide(func() clockwork.Clock {
			return clockwork.NewRealClock()
		}),
	)
}
