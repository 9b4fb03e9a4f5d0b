package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Database
	DatabaseURL    string
	MigrateOnStart bool
	MigrationsDir  string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Relay
	RelaySendBuffer int
	RelayReadLimit  int64

	// Security
	JWTSecret        string
	TicketTTLMinutes int

	// Court
	CourtFile string
}

// SimConfig drives the headless match runner.
type SimConfig struct {
	TickHz         int
	ScoreLimit     int
	RelayURL       string
	BroadcastEvery int
	MaxDuration    time.Duration
	Seed           int64
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),

		RedisURL: getEnv("REDIS_URL", ""),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		RelaySendBuffer: getEnvInt("RELAY_SEND_BUFFER", 64),
		RelayReadLimit:  int64(getEnvInt("RELAY_READ_LIMIT", 8192)),

		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
		TicketTTLMinutes: getEnvInt("TICKET_TTL_MINUTES", 60),

		CourtFile: getEnv("COURT_FILE", ""),
	}
}

func LoadSim() *SimConfig {
	godotenv.Load()

	return &SimConfig{
		TickHz:         getEnvInt("SIM_TICK_HZ", 60),
		ScoreLimit:     getEnvInt("SIM_SCORE_LIMIT", 11),
		RelayURL:       getEnv("SIM_RELAY_URL", ""),
		BroadcastEvery: getEnvInt("SIM_BROADCAST_EVERY", 3),
		MaxDuration:    time.Duration(getEnvInt("SIM_MAX_DURATION_SECONDS", 300)) * time.Second,
		Seed:           int64(getEnvInt("SIM_SEED", 1)),
	}
}

// TicketTTL is the lifetime of a room join ticket.
func (c *Config) TicketTTL() time.Duration {
	return time.Duration(c.TicketTTLMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits FRONTEND_URL on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
