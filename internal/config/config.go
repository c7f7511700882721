package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           slog.Level
}

const (
	defaultRunAddress         = ":8080"
	defaultCacheTTL           = time.Minute
	defaultCacheSweepInterval = 30 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultLogLevel           = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		CacheTTL:           getDuration(lookup, "CACHE_TTL", defaultCacheTTL),
		CacheSweepInterval: getDuration(lookup, "CACHE_SWEEP_INTERVAL", defaultCacheSweepInterval),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	if dsnFile, ok := lookup("DATABASE_URI_FILE"); ok && dsnFile != "" {
		content, err := os.ReadFile(dsnFile)
		if err != nil {
			return nil, fmt.Errorf("read database uri file: %w", err)
		}
		cfg.DatabaseURI = strings.TrimSpace(string(content))
	}

	fs := flag.NewFlagSet("invoicedash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cacheTTLStr        = cfg.CacheTTL.String()
		cacheSweepStr      = cfg.CacheSweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cacheTTLStr, "cache-ttl", cacheTTLStr, "Lifetime of cached dashboard pages")
	fs.StringVar(&cacheSweepStr, "cache-sweep", cacheSweepStr, "Interval between expired page sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.CacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}

	if cfg.CacheSweepInterval, err = time.ParseDuration(cacheSweepStr); err != nil {
		return nil, fmt.Errorf("invalid cache sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(logLevelStr))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	if cfg.CacheSweepInterval <= 0 {
		cfg.CacheSweepInterval = defaultCacheSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
