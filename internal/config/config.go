package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string

	// Reminder worker settings.
	AMQPURL          string
	ReminderExchange string
	ReminderQueue    string
	ReminderHour     int
	ReminderWindow   time.Duration
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:             fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:        fallback(os.Getenv("JWT_ISSUER"), "fintrack-backend"),
		CORSOrigins:      parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		AMQPURL:          strings.TrimSpace(os.Getenv("AMQP_URL")),
		ReminderExchange: fallback(os.Getenv("REMINDER_EXCHANGE"), "fintrack.reminders"),
		ReminderQueue:    fallback(os.Getenv("REMINDER_QUEUE"), "bill-reminders"),
	}

	// Tokens default to a week, matching the session lifetime users expect
	// from the web client.
	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "10080")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 7 * 24 * time.Hour
	}

	hour := fallback(os.Getenv("REMINDER_HOUR"), "9")
	if h, err := strconv.Atoi(hour); err == nil && h >= 0 && h <= 23 {
		cfg.ReminderHour = h
	} else {
		cfg.ReminderHour = 9
	}

	days := fallback(os.Getenv("REMINDER_WINDOW_DAYS"), "3")
	if d, err := strconv.Atoi(days); err == nil && d > 0 {
		cfg.ReminderWindow = time.Duration(d) * 24 * time.Hour
	} else {
		cfg.ReminderWindow = 3 * 24 * time.Hour
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
