package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pg-recommender/apperr"
)

const (
	configPathEnv = "RECOMMENDER_CONFIG"

	defaultGeocodeURL = "https://api.opencagedata.com/geocode/v1/json"
)

// Config holds all application configuration. Values come from an optional
// YAML file, then from the environment (including a .env file).
type Config struct {
	DatasetSource string `yaml:"datasetSource" validate:"oneof=csv postgres"`
	DatasetPath   string `yaml:"datasetPath" validate:"required_if=DatasetSource csv"`

	PostgresHost     string `yaml:"postgresHost"`
	PostgresPort     string `yaml:"postgresPort"`
	PostgresUser     string `yaml:"postgresUser"`
	PostgresPassword string `yaml:"postgresPassword"`
	PostgresDB       string `yaml:"postgresDb"`
	PostgresSSLMode  string `yaml:"postgresSslMode"`
	PostgresTable    string `yaml:"postgresTable" validate:"required_if=DatasetSource postgres"`

	OpenCageAPIKey    string `yaml:"opencageApiKey"`
	GeocodeURL        string `yaml:"geocodeUrl" validate:"required,url"`
	GeocodeTimeoutMs  int    `yaml:"geocodeTimeoutMs" validate:"gt=0"`
	GeocodeMaxRetries int    `yaml:"geocodeMaxRetries" validate:"gte=0,lte=3"`

	SentimentStrategy  string `yaml:"sentimentStrategy" validate:"oneof=lexical model"`
	SentimentModelURL  string `yaml:"sentimentModelUrl" validate:"required_if=SentimentStrategy model"`
	SentimentAPIKey    string `yaml:"sentimentApiKey"`
	SentimentTimeoutMs int    `yaml:"sentimentTimeoutMs" validate:"gt=0"`

	HTTPAddr       string `yaml:"httpAddr" validate:"required"`
	MaxConcurrency int    `yaml:"maxConcurrency" validate:"gte=1"`
	RateLimitMs    int    `yaml:"rateLimitMs" validate:"gte=0"`

	ChromeBin       string `yaml:"chromeBin"`
	LocateTimeoutMs int    `yaml:"locateTimeoutMs" validate:"gt=0"`

	LogLevel  string `yaml:"logLevel" validate:"oneof=debug info warn warning error"`
	LogFormat string `yaml:"logFormat" validate:"oneof=console json"`
}

// Load reads the .env file and the optional YAML file and returns a
// validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DatasetSource: "csv",
		DatasetPath:   "./data/pg_dataset_with_coords.csv",

		PostgresHost:     "localhost",
		PostgresPort:     "5432",
		PostgresUser:     "recommender",
		PostgresPassword: "recommender",
		PostgresDB:       "rental_db",
		PostgresSSLMode:  "disable",
		PostgresTable:    "pg_listings",

		GeocodeURL:        defaultGeocodeURL,
		GeocodeTimeoutMs:  5000,
		GeocodeMaxRetries: 1,

		SentimentStrategy:  "lexical",
		SentimentTimeoutMs: 10000,

		HTTPAddr:       ":8501",
		MaxConcurrency: 4,
		RateLimitMs:    0,

		LocateTimeoutMs: 8000,

		LogLevel:  "info",
		LogFormat: "console",
	}
}

func (c *Config) applyEnv() {
	c.DatasetSource = strings.ToLower(getEnv("DATASET_SOURCE", c.DatasetSource))
	c.DatasetPath = getEnv("DATASET_PATH", c.DatasetPath)

	c.PostgresHost = getEnv("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = getEnv("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = getEnv("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = getEnv("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresDB = getEnv("POSTGRES_DB", c.PostgresDB)
	c.PostgresSSLMode = getEnv("POSTGRES_SSLMODE", c.PostgresSSLMode)
	c.PostgresTable = getEnv("POSTGRES_TABLE", c.PostgresTable)

	c.OpenCageAPIKey = strings.TrimSpace(getEnv("OPENCAGE_API_KEY", c.OpenCageAPIKey))
	c.GeocodeURL = getEnv("GEOCODE_URL", c.GeocodeURL)
	c.GeocodeTimeoutMs = getEnvInt("GEOCODE_TIMEOUT_MS", c.GeocodeTimeoutMs)
	c.GeocodeMaxRetries = getEnvInt("GEOCODE_MAX_RETRIES", c.GeocodeMaxRetries)

	c.SentimentStrategy = strings.ToLower(getEnv("SENTIMENT_STRATEGY", c.SentimentStrategy))
	c.SentimentModelURL = getEnv("SENTIMENT_MODEL_URL", c.SentimentModelURL)
	c.SentimentAPIKey = getEnv("SENTIMENT_MODEL_API_KEY", c.SentimentAPIKey)
	c.SentimentTimeoutMs = getEnvInt("SENTIMENT_TIMEOUT_MS", c.SentimentTimeoutMs)

	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.MaxConcurrency = getEnvInt("MAX_CONCURRENCY", c.MaxConcurrency)
	c.RateLimitMs = getEnvInt("RATE_LIMIT_MS", c.RateLimitMs)

	c.ChromeBin = getEnv("CHROME_BIN", c.ChromeBin)
	c.LocateTimeoutMs = getEnvInt("LOCATE_TIMEOUT_MS", c.LocateTimeoutMs)

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// RequireGeocoding reports a CONFIGURATION error when reverse geocoding is
// not configured. Call it at startup on code paths that need geocoding.
func (c *Config) RequireGeocoding() error {
	if c.OpenCageAPIKey == "" {
		return apperr.NewConfigurationError("OPENCAGE_API_KEY is not set; add it to the environment or .env file")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// GeocodeTimeout returns the per-attempt geocoding timeout.
func (c *Config) GeocodeTimeout() time.Duration {
	return time.Duration(c.GeocodeTimeoutMs) * time.Millisecond
}

// SentimentTimeout returns the model request timeout.
func (c *Config) SentimentTimeout() time.Duration {
	return time.Duration(c.SentimentTimeoutMs) * time.Millisecond
}

// LocateTimeout returns how long the browser locator waits for a position.
func (c *Config) LocateTimeout() time.Duration {
	return time.Duration(c.LocateTimeoutMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
