package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	ServerPort  string
	GinMode     string
	JWTSecret   string
	JWTTTL      time.Duration
	JWTIssuer   string
	CORSOrigins []string
}

func Load() *Config {
	// Optional .env for local development; real deployments use the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBUser:      getEnv("DB_USER", "taskuser"),
		DBPassword:  getEnv("DB_PASSWORD", "taskpassword"),
		DBName:      getEnv("DB_NAME", "task_manager"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		JWTSecret:   getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTTTL:      time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		JWTIssuer:   getEnv("JWT_ISSUER", "task-manager-api"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
