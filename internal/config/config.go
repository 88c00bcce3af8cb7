package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	AppName               string
	DatabaseURL           string
	DBHost                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBPort                string
	JWTSecret             string
	JWTExpiresHours       int
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	ReportCacheTTLSeconds int
	DefaultTimezone       string
	LogLevel              string
	SeedAdminEmail        string
	SeedAdminPassword     string
}

// Load reads .env (when present) and the process environment.
// A missing .env is not an error; the returned flag reports whether one was read.
func Load() (Config, bool) {
	envLoaded := godotenv.Load() == nil

	cfg := Config{
		Port:                  getEnv("PORT", "3000"),
		AppName:               getEnv("APP_NAME", "Retail POS v1.0"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBPort:                getEnv("DB_PORT", "5432"),
		JWTSecret:             strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTExpiresHours:       getEnvInt("JWT_EXPIRES_HOURS", 24),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		ReportCacheTTLSeconds: getEnvInt("REPORT_CACHE_TTL_SECONDS", 30),
		DefaultTimezone:       getEnv("DEFAULT_TIMEZONE", "UTC"),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		SeedAdminEmail:        getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword:     os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	if cfg.JWTExpiresHours < 1 {
		cfg.JWTExpiresHours = 24
	}
	if cfg.ReportCacheTTLSeconds < 1 {
		cfg.ReportCacheTTLSeconds = 30
	}

	return cfg, envLoaded
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* parts.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DefaultTimezone,
	)
}

func (c Config) Address() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
