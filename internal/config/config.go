package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config carries every knob the binaries need. It is loaded once at startup
// and passed explicitly; nothing in the pipeline reads the environment on its
// own, so tests can run several configurations side by side.
type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// Spreadsheet source
	SourceBackend string // "google" or "memory"

	// Google API. SheetQuery is a Drive files.list query template with one
	// %s verb for the year.
	GoogleSheetQuery      string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string

	// AMQP (optional). When set, sync requests can be queued instead of run
	// inline.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel string
}

const defaultSheetQuery = "name contains 'Expenses %s' and mimeType = 'application/vnd.google-apps.spreadsheet'"

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tripledger.db"),

		SourceBackend: getEnv("SOURCE_BACKEND", "google"),

		GoogleSheetQuery:      getEnv("GOOGLE_SHEET_QUERY", defaultSheetQuery),
		GoogleCredentialsJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tripledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_requests"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port := strings.TrimSpace(c.Port); port == "" {
		problems = append(problems, "port cannot be empty")
	} else {
		valid := true
		for _, r := range port {
			if r < '0' || r > '9' {
				valid = false
				break
			}
		}
		if !valid {
			problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
		}
	}

	switch c.SourceBackend {
	case "google":
		if !strings.Contains(c.GoogleSheetQuery, "%s") {
			problems = append(problems, "google sheet query must contain a %s verb for the year")
		}
		if c.GoogleCredentialsJSON == "" && c.GoogleCredentialsFile == "" {
			problems = append(problems, "set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE for the google backend")
		}
	case "memory":
		// Test/demo backend, nothing to check.
	default:
		problems = append(problems, fmt.Sprintf("invalid source backend %q: must be google or memory", c.SourceBackend))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "sqlite database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be amqp or amqps", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
