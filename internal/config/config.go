package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds server and infrastructure settings
type Config struct {
	HTTPPort   string
	RedisAddr  string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	SessionTTL time.Duration
	LockTTL    time.Duration
	RateRPS    float64
	RateBurst  int
	TrustProxy bool // rate limit by X-Forwarded-For
	LogFile    string
}

// Load reads the configuration, applying a .env file first if one exists
func Load() *Config {
	// Missing .env is fine, real environment wins
	_ = godotenv.Load()

	return &Config{
		HTTPPort:   getEnvOrDefault("PORT", "8080"),
		RedisAddr:  trimRedisScheme(getEnvOrDefault("REDIS_URI", "localhost:6379")),
		MongoURI:   getEnvOrDefault("MONGO_URI", ""),
		MongoDB:    getEnvOrDefault("MONGO_DB", "quizdb"),
		JWTSecret:  getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MIN", 120)) * time.Minute,
		LockTTL:    time.Duration(getEnvInt("SESSION_LOCK_TTL_SEC", 120)) * time.Second,
		RateRPS:    float64(getEnvFloat32("RATE_LIMIT_RPS", 2)),
		RateBurst:  getEnvInt("RATE_LIMIT_BURST", 5),
		TrustProxy: getEnvBool("TRUST_PROXY", false),
		LogFile:    getEnvOrDefault("LOG_FILE", ""),
	}
}

// Remove redis:// prefix if present
func trimRedisScheme(addr string) string {
	if len(addr) > 8 && addr[:8] == "redis://" {
		return addr[8:]
	}
	return addr
}
