package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yannesss/finreport/internal/i18n"
	"github.com/yannesss/finreport/internal/ledger"
	"github.com/yannesss/finreport/internal/smart"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend  string
	FileDBPath   string
	SQLiteDBPath string

	// Smart entry
	ParserBackend   string
	GeminiModel     string
	SmartParseDelay time.Duration

	// Reporting
	BreakdownThreshold int
	DefaultLang        string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8082"),

		DataBackend:  getEnv("DATA_BACKEND", "file"),
		FileDBPath:   getEnv("FILE_DB_PATH", "./data/finreport.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finreport.db"),

		ParserBackend:   getEnv("PARSER_BACKEND", "rules"),
		GeminiModel:     getEnv("GEMINI_MODEL", ""),
		SmartParseDelay: getEnvDuration("SMART_PARSE_DELAY", smart.DefaultDelay),

		BreakdownThreshold: getEnvInt("BREAKDOWN_THRESHOLD", ledger.DefaultBreakdownThreshold),
		DefaultLang:        getEnv("DEFAULT_LANG", string(i18n.DefaultLang)),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finreport"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"file", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "file" && c.FileDBPath == "" {
		errors = append(errors, "file database path cannot be empty when using file backend")
	}
	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	// Validate parser backend
	if c.ParserBackend != "rules" && c.ParserBackend != "gemini" {
		errors = append(errors, fmt.Sprintf("invalid parser backend '%s': must be one of [rules gemini]", c.ParserBackend))
	}

	if c.SmartParseDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid smart parse delay %v: must not be negative", c.SmartParseDelay))
	}

	if c.BreakdownThreshold < 2 {
		errors = append(errors, fmt.Sprintf("invalid breakdown threshold %d: must be at least 2", c.BreakdownThreshold))
	}

	if !i18n.Lang(c.DefaultLang).IsValid() {
		errors = append(errors, fmt.Sprintf("invalid default language '%s': must be one of [en zh]", c.DefaultLang))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
