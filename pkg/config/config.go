package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	OpenAI    OpenAIConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration.
// An empty URL disables the Typesense lexical tier; text search then falls
// back to the database.
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// OpenAIConfig holds OpenAI configuration.
// An empty APIKey means the provider is unconfigured: semantic search and
// query rewriting degrade to their lexical fallbacks instead of failing.
type OpenAIConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	RateLimitRPM   int
	RateLimitBurst int
}

// SearchConfig holds search pipeline configuration
type SearchConfig struct {
	DefaultLimit   int
	MaxLimit       int
	RewriteEnabled bool
	SuggestTTLSec  int
}

// RateLimitRule is a (limit, window-seconds) pair for one action namespace
type RateLimitRule struct {
	Limit         int
	WindowSeconds int
}

// RateLimitConfig holds per-action rate limit rules
type RateLimitConfig struct {
	Semantic RateLimitRule
	Rewrite  RateLimitRule
	Suggest  RateLimitRule
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "uslugo"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", ""),
			APIKey: getEnv("TYPESENSE_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		Search: SearchConfig{
			DefaultLimit:   getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:       getEnvAsInt("SEARCH_MAX_LIMIT", 50),
			RewriteEnabled: getEnvAsBool("SEARCH_REWRITE_ENABLED", false),
			SuggestTTLSec:  getEnvAsInt("SUGGEST_CACHE_TTL_SECONDS", 180),
		},
		RateLimit: RateLimitConfig{
			Semantic: RateLimitRule{
				Limit:         getEnvAsInt("RATE_LIMIT_SEMANTIC", 30),
				WindowSeconds: getEnvAsInt("RATE_LIMIT_SEMANTIC_WINDOW", 60),
			},
			Rewrite: RateLimitRule{
				Limit:         getEnvAsInt("RATE_LIMIT_REWRITE", 10),
				WindowSeconds: getEnvAsInt("RATE_LIMIT_REWRITE_WINDOW", 60),
			},
			Suggest: RateLimitRule{
				Limit:         getEnvAsInt("RATE_LIMIT_SUGGEST", 60),
				WindowSeconds: getEnvAsInt("RATE_LIMIT_SUGGEST_WINDOW", 60),
			},
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "uslugo-search"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
