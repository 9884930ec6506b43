package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr":           ":9999",
		"base_url":                "https://register.example",
		"database_dsn":            "postgres://example/artefacts",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "24h",
		"bcrypt_cost":             12,
		"page_size":               8,
		"storage_backend":         "s3",
		"storage_dir":             "imgstore",
		"s3_root_user":            "user",
		"s3_root_password":        "password",
		"s3_bucket":               "bucket",
		"s3_region":               "region",
		"s3_base_endpoint":        "base_endpoint",
		"log_backend":             "zap",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9999", cfg.EndpointAddr)
		assert.Equal(t, "https://register.example", cfg.BaseURL)
		assert.Equal(t, "postgres://example/artefacts", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, 8, cfg.PageSize)
		assert.Equal(t, "s3", cfg.StorageBackend)
		assert.Equal(t, "imgstore", cfg.StorageDir)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "zap", cfg.LogBackend)
	})

	t.Run("no flags, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":5100", cfg.EndpointAddr)
		assert.Equal(t, StorageBackendLocal, cfg.StorageBackend)
	})

	t.Run("partial file keeps defaults for absent keys", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"endpoint_addr": ":7000"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":7000", cfg.EndpointAddr)
		assert.Equal(t, 16, cfg.PageSize)
		assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
	})
}

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", ":6000", "-k", "s3", "-t", "60", "-o", "zap"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6000", cfg.EndpointAddr)
	assert.Equal(t, "s3", cfg.StorageBackend)
	assert.Equal(t, time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, "zap", cfg.LogBackend)
	// untouched flags keep defaults
	assert.Equal(t, "storage", cfg.StorageDir)
}
