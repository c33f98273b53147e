package config

import (
	"path/filepath"

	"go.uber.org/fx"

	"github.com/repopulse/repopulse/internal/gitcli"
	"github.com/repopulse/repopulse/internal/repostate"
	"github.com/repopulse/repopulse/internal/watcher"
	"github.com/repopulse/repopulse/pkg/promfx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) repostate.Config {
			match := repostate.MatchExact
			if cfg.Locks.FoldCase {
				match = repostate.MatchFoldCase
			}
			return repostate.Config{
				Dir:          cfg.Repository.Path,
				Debounce:     cfg.Watch.Debounce,
				LockMatch:    match,
				LocksEnabled: cfg.Locks.Enabled,
			}
		}),
		fx.Provide(func(cfg Config) gitcli.Config {
			return gitcli.Config{
				Binary:  cfg.Git.Binary,
				Timeout: cfg.Git.Timeout,
			}
		}),
		fx.Provide(func(cfg Config) watcher.Config {
			return watcher.Config{
				Dir: filepath.Join(cfg.Repository.Path, ".git"),
			}
		}),
		fx.Provide(func(cfg Config) promfx.Config {
			return promfx.Config{
				Address: cfg.Metrics.Address,
			}
		}),
	)
}
