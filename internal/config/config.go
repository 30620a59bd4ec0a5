package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Store backend: "memory" or "sqlite"
	StoreBackend string
	SQLiteDBPath string
	SeedFile     string

	// Credential scheme: "plain" or "bcrypt"
	CredentialScheme string

	// Login policy
	EnforceStrengthOnLogin bool

	// AMQP (optional; empty URL disables alert publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendwise.db"),
		SeedFile:     getEnv("SEED_FILE", "./data/seed.toml"),

		CredentialScheme: getEnv("CREDENTIAL_SCHEME", "plain"),

		EnforceStrengthOnLogin: getEnvBool("ENFORCE_STRENGTH_ON_LOGIN", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendwise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_alerts"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StoreBackend {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be one of [memory sqlite]", c.StoreBackend))
	}

	if c.StoreBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	switch c.CredentialScheme {
	case "plain", "bcrypt":
	default:
		errs = append(errs, fmt.Sprintf("invalid credential scheme '%s': must be one of [plain bcrypt]", c.CredentialScheme))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
