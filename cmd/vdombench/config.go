package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds defaults read from the environment. Flags override them.
type envConfig struct {
	Variant         string        `env:"VDOMBENCH_VARIANT"          envDefault:"root"`
	ConfigPath      string        `env:"VDOMBENCH_CONFIG"`
	Addr            string        `env:"VDOMBENCH_ADDR"             envDefault:"localhost:8090"`
	LogLevel        string        `env:"VDOMBENCH_LOG_LEVEL"        envDefault:"info"`
	ShutdownTimeout time.Duration `env:"VDOMBENCH_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func parseEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}

	return level, nil
}
