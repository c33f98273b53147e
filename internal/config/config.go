package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
	"github.com/go-playground/validator/v10"
)

type repositoryConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type watchConfig struct {
	Debounce time.Duration `koanf:"debounce" validate:"gte=0"`
}

type gitConfig struct {
	Binary  string        `koanf:"binary"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

type locksConfig struct {
	Enabled  bool `koanf:"enabled"`
	FoldCase bool `koanf:"fold_case"`
}

type metricsConfig struct {
	Address string `koanf:"address"`
}

type Config struct {
	Repository repositoryConfig `koanf:"repository"`
	Watch      watchConfig      `koanf:"watch"`
	Git        gitConfig        `koanf:"git"`
	Locks      locksConfig      `koanf:"locks"`
	Metrics    metricsConfig    `koanf:"metrics"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		Watch: watchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Git: gitConfig{
			Binary:  "git",
			Timeout: 30 * time.Second,
		},
		Locks: locksConfig{
			Enabled: true,
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
