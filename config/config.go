package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string
	PublicURL  string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBPath        string
	MigrationsDir string

	// Redis configuration
	RedisURL string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Media storage
	StorageDriver  string
	MediaDir       string
	MediaURL       string
	S3BucketName   string
	S3Endpoint     string
	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string

	LogLevel          string
	RecipeCreateLimit int
	CORSOrigins       []string
}

// LoadConfig builds the configuration from a .env file (if any), the process
// environment and docker secrets, in that order of precedence for each key.
func LoadConfig() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		ServerHost:     lookup("SERVER_HOST", "0.0.0.0"),
		ServerPort:     lookup("SERVER_PORT", "8080"),
		DBDriver:       lookup("DB_DRIVER", "postgres"),
		DBHost:         lookup("DB_HOST", "localhost"),
		DBPort:         lookup("DB_PORT", "5432"),
		DBUser:         lookup("DB_USER", "postgres"),
		DBPassword:     lookup("DB_PASSWORD", ""),
		DBName:         lookup("DB_NAME", "foodgram"),
		DBSSLMode:      lookup("DB_SSL_MODE", "disable"),
		DBPath:         lookup("DB_PATH", "foodgram.db"),
		MigrationsDir:  lookup("MIGRATIONS_DIR", "migrations"),
		RedisURL:       lookup("REDIS_URL", ""),
		JWTSecret:      lookup("JWT_SECRET", ""),
		StorageDriver:  lookup("STORAGE_DRIVER", "local"),
		MediaDir:       lookup("MEDIA_DIR", "media"),
		S3BucketName:   lookup("S3_BUCKET_NAME", "foodgram-media"),
		S3Endpoint:     lookup("S3_ENDPOINT", ""),
		AWSRegion:      lookup("AWS_REGION", "us-east-1"),
		AWSAccessKeyID: lookup("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   lookup("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:       lookup("LOG_LEVEL", "info"),
	}

	cfg.PublicURL = strings.TrimRight(lookup("PUBLIC_URL", "http://localhost:"+cfg.ServerPort), "/")
	cfg.MediaURL = strings.TrimRight(lookup("MEDIA_URL", cfg.PublicURL+"/media"), "/")

	ttl, err := time.ParseDuration(lookup("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, ValidationError{Field: "TOKEN_TTL", Message: err.Error()}
	}
	cfg.TokenTTL = ttl

	limit, err := strconv.Atoi(lookup("RECIPE_CREATE_LIMIT", "30"))
	if err != nil {
		return nil, ValidationError{Field: "RECIPE_CREATE_LIMIT", Message: "must be an integer"}
	}
	cfg.RecipeCreateLimit = limit

	for _, origin := range strings.Split(lookup("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if !IsProduction() && cfg.JWTSecret == "" {
		cfg.JWTSecret = "insecure-development-secret"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// lookup resolves a key from the environment, then from the docker secret
// named after the lowercased key, then falls back to def.
func lookup(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	if value := readSecret(strings.ToLower(key)); value != "" {
		return value
	}
	return def
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
