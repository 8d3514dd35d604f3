// Package config handles configuration loading for the expense service.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the expense service.
type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	UploadDir     string
	BcryptCost    int
	Port          string
	Environment   string
	SwaggerHost   string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		DBHost:        GetEnvRequired("DB_HOST"),
		DBPort:        GetEnvRequired("DB_PORT"),
		DBUser:        GetEnvRequired("DB_USER"),
		DBPassword:    GetEnvRequired("DB_PASSWORD"),
		DBName:        GetEnvRequired("DB_NAME"),
		RedisHost:     GetEnv("REDIS_HOST", "localhost"),
		RedisPort:     GetEnv("REDIS_PORT", "6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:     GetEnvRequired("JWT_SECRET"),
		JWTExpiry:     parseDuration(GetEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		AdminEmail:    GetEnv("ADMIN_EMAIL", "admin@expensaflow.com"),
		UploadDir:     GetEnv("UPLOAD_DIR", "uploads"),
		BcryptCost:    parseInt(GetEnv("BCRYPT_COST", "10"), 10),
		Port:          GetEnv("PORT", "3001"),
		Environment:   GetEnv("ENVIRONMENT", "development"),
		SwaggerHost:   GetEnv("SWAGGER_HOST", ""),
	}
}

// GetEnv returns the value of the environment variable or the default.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvRequired returns the value of the environment variable or exits.
func GetEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Required environment variable %s is not set", key)
	}
	return value
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
