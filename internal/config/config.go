package config

import (
	"fmt"
	"time"

	"github.com/argus-grade/argus/internal/configs/env"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisDB                 int
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration
	StreamMaxRetries        int
	StreamConsumerEnabled   bool

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Concurrency
	MaxConcurrentBatch int

	// Batch analysis
	BatchTimeout time.Duration

	// Fingerprinting
	KGramSize    int
	WinnowWindow int

	// Similarity scoring. JaccardWeight and LCSWeight must sum to 1.
	JaccardWeight    float64
	LCSWeight        float64
	PartialThreshold float64
	FlagThreshold    float64

	// Logging
	LogLevel string
	Env      string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = env.GetEnvInt("REDIS_DB", 0)
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "submissions:stream")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "submissions:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "submissions:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_HOURS", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour
	cfg.StreamMaxRetries = env.GetEnvInt("STREAM_MAX_RETRIES", 3)
	cfg.StreamConsumerEnabled = env.GetEnvBool("STREAM_CONSUMER_ENABLED", true)

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "argus")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Concurrency
	cfg.MaxConcurrentBatch = env.GetEnvInt("MAX_CONCURRENT_BATCH", 5)

	// Batch analysis
	timeoutMinutes := env.GetEnvInt("BATCH_TIMEOUT_MINUTES", 30)
	cfg.BatchTimeout = time.Duration(timeoutMinutes) * time.Minute

	// Fingerprinting
	cfg.KGramSize = env.GetEnvInt("KGRAM_SIZE", 5)
	cfg.WinnowWindow = env.GetEnvInt("WINNOW_WINDOW", 4)

	// Similarity scoring
	cfg.JaccardWeight = env.GetEnvFloat("SIM_JACCARD_WEIGHT", 0.6)
	cfg.LCSWeight = env.GetEnvFloat("SIM_LCS_WEIGHT", 0.4)
	cfg.PartialThreshold = env.GetEnvFloat("SIM_PARTIAL_THRESHOLD", 0.3)
	cfg.FlagThreshold = env.GetEnvFloat("SIM_FLAG_THRESHOLD", 0.7)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")
	cfg.Env = env.GetEnv("ENV", "development")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxConcurrentBatch <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_BATCH must be greater than 0")
	}
	if c.KGramSize < 2 {
		return fmt.Errorf("KGRAM_SIZE must be at least 2")
	}
	if c.WinnowWindow < 1 {
		return fmt.Errorf("WINNOW_WINDOW must be at least 1")
	}
	if sum := c.JaccardWeight + c.LCSWeight; sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("SIM_JACCARD_WEIGHT and SIM_LCS_WEIGHT must sum to 1")
	}
	if c.FlagThreshold <= 0 || c.FlagThreshold > 1 {
		return fmt.Errorf("SIM_FLAG_THRESHOLD must be in (0, 1]")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_HOURS must be greater than 0")
	}
	return nil
}
