package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	BaseURL         string // Externally visible base URL used to render short links
	RedisURL        string // Optional; empty disables the lookup cache
	JWTSecret       string // Secret key for JWT token signing
	JWTTTLHours     int    // JWT token validity in hours
	LivenessTimeout int    // Per-attempt liveness probe timeout in seconds
	MigrationsDir   string
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		RedisURL:        getEnv("REDIS_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTTTLHours:     getEnvInt("JWT_TTL_HOURS", 168), // 7 days
		LivenessTimeout: getEnvInt("LIVENESS_TIMEOUT_SECONDS", 10),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
