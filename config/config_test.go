package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	for _, key := range []string{
		"DB_DRIVER", "DB_HOST", "DB_PASSWORD", "JWT_SECRET", "STORAGE_DRIVER",
		"TOKEN_TTL", "RECIPE_CREATE_LIMIT", "CORS_ORIGINS", "PUBLIC_URL", "MEDIA_URL",
		"SERVER_PORT", "S3_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.DSN(), "host=db")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30, cfg.RecipeCreateLimit)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, "http://localhost:8080/media", cfg.MediaURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigReadsDockerSecrets(t *testing.T) {
	isolateEnv(t)
	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	isolateEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MEDIA_DIR=/srv/media\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("MEDIA_DIR", "")
	os.Unsetenv("MEDIA_DIR")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/media", cfg.MediaDir)
}

func TestLoadConfigRejectsUnknownDrivers(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestValidateConfigProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")

	cfg := &Config{
		DBDriver:      "postgres",
		DBHost:        "db",
		DBName:        "foodgram",
		StorageDriver: "local",
		MediaDir:      "media",
		PublicURL:     "https://foodgram.example",
		TokenTTL:      time.Hour,
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	cfg.JWTSecret = "secret"
	cfg.DBPassword = "password"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "prod")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.True(t, IsDevelopment())
}
