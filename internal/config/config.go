// Package config reads process settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string
	TmpDir    string

	DownloadConcurrency int
	DownloadTimeout     time.Duration

	// RegistryPath overrides the embedded mesh survey registry when set.
	RegistryPath string
	DatabaseURL  string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	concurrency, err := strconv.Atoi(EnvOrDefault("DOWNLOAD_CONCURRENCY", "10"))
	if err != nil || concurrency <= 0 {
		return nil, errors.New("invalid DOWNLOAD_CONCURRENCY")
	}

	timeout, err := time.ParseDuration(EnvOrDefault("DOWNLOAD_TIMEOUT", "60s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid DOWNLOAD_TIMEOUT")
	}

	return &Config{
		LogLevel:            EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           EnvOrDefault("LOG_FORMAT", "text"),
		TmpDir:              EnvOrDefault("TMP_DIR", "./tmp"),
		DownloadConcurrency: concurrency,
		DownloadTimeout:     timeout,
		RegistryPath:        os.Getenv("MESH_REGISTRY"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
	}, nil
}

// EnvOrDefault returns the value of key, or fallback when it is unset or empty.
func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
