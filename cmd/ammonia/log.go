package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// logConfig is read from environment only, because logging starts before
// flags and config file are parsed.
type logConfig struct {
	File  string `env:"AMMONIA_LOG_FILE"`
	Level string `env:"AMMONIA_LOG_LEVEL" envDefault:"warn"`
	Debug bool   `env:"AMMONIA_DEBUG"`
}

func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("AMMONIA_LOG_LEVEL: %w", err)
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if cfg.File == "" {
		return func() error { return nil }, nil
	}

	// Log to file, if set
	logFile := expandPath(cfg.File)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}
