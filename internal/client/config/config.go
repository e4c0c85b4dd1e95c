package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the client's runtime settings.
type Config struct {
	ServerURL     string
	DBPath        string
	LogLevel      slog.Level
	ProbeInterval time.Duration
}

const (
	defaultServerURL     = "http://localhost:8080"
	defaultDBPath        = "marketsync-client.db"
	defaultProbeInterval = 30 * time.Second
)

// Load parses the TOML config at path, falling back to defaults when the
// file is missing. An empty path uses defaults outright.
func Load(path string) (Config, error) {
	cfg := Config{
		ServerURL:     defaultServerURL,
		DBPath:        defaultDBPath,
		LogLevel:      slog.LevelInfo,
		ProbeInterval: defaultProbeInterval,
	}

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var file struct {
		ServerURL            string `toml:"server_url"`
		DBPath               string `toml:"db_path"`
		LogLevel             string `toml:"log_level"`
		ProbeIntervalSeconds int    `toml:"probe_interval_seconds"`
	}
	if err := toml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(file.ServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(file.DBPath); v != "" {
		cfg.DBPath = v
	}
	if file.ProbeIntervalSeconds > 0 {
		cfg.ProbeInterval = time.Duration(file.ProbeIntervalSeconds) * time.Second
	}
	if v := strings.TrimSpace(file.LogLevel); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
