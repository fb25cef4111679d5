package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/eduevents/eduevents-hub/config"
)

// InitLogger installs the startup logger used until configuration is loaded.
func InitLogger() *slog.Logger {
	return ConfigureLogger(os.Stdout, config.LogConfig{Level: "info", Format: "json"})
}

// ConfigureLogger builds the process logger from cfg and makes it the default.
func ConfigureLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(handler).With("service", "eduevents-hub")
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from the environment, after applying a
// .env file from the working directory when one exists.
func LoadConfig() (config.AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
