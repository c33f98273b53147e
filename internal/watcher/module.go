package watcher

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"

	"github.com/repopulse/repopulse/internal/repostate"
)

func Module() fx.Option {
	return fx.Module(
		"watcher",
		logger.WithNamedLogger("watcher"),
		fx.Provide(
			fx.Annotate(NewService, fx.As(new(repostate.RepoWatcher))),
		),
	)
}
