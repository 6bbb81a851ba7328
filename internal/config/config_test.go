package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "TMP_DIR", "DOWNLOAD_CONCURRENCY",
		"DOWNLOAD_TIMEOUT", "MESH_REGISTRY", "DATABASE_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "./tmp", cfg.TmpDir)
	assert.Equal(t, 10, cfg.DownloadConcurrency)
	assert.Equal(t, 60*time.Second, cfg.DownloadTimeout)
	assert.Empty(t, cfg.RegistryPath)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("TMP_DIR", "/var/tmp/estat")
	t.Setenv("DOWNLOAD_CONCURRENCY", "4")
	t.Setenv("DOWNLOAD_TIMEOUT", "2m")
	t.Setenv("MESH_REGISTRY", "/etc/estat/mesh_stats.json")
	t.Setenv("DATABASE_URL", "postgres://localhost/estat")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/var/tmp/estat", cfg.TmpDir)
	assert.Equal(t, 4, cfg.DownloadConcurrency)
	assert.Equal(t, 2*time.Minute, cfg.DownloadTimeout)
	assert.Equal(t, "/etc/estat/mesh_stats.json", cfg.RegistryPath)
	assert.Equal(t, "postgres://localhost/estat", cfg.DatabaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"DOWNLOAD_CONCURRENCY": "0",
		"DOWNLOAD_TIMEOUT":     "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}

	t.Run("negative concurrency", func(t *testing.T) {
		t.Setenv("DOWNLOAD_CONCURRENCY", "-1")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("JP_ESTAT_TEST_KEY", "")
	assert.Equal(t, "fallback", EnvOrDefault("JP_ESTAT_TEST_KEY", "fallback"))

	t.Setenv("JP_ESTAT_TEST_KEY", "set")
	assert.Equal(t, "set", EnvOrDefault("JP_ESTAT_TEST_KEY", "fallback"))
}
