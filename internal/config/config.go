package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// Supported document store backends
const (
	BackendElasticsearch = "elasticsearch"
	BackendSQLite        = "sqlite"
	BackendPostgres      = "postgres"
)

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Environment and logging configuration
	Environment string `json:"environment"`
	LogLevel    string `json:"log_level"`

	// Document store configuration
	StoreBackend string `json:"store_backend"`

	// Elastic Cloud credentials
	CloudID  string `json:"cloud_id"`
	APIKeyID string `json:"api_key_id"`
	APIKey   string `json:"api_key"`

	// Local database configuration, used by the sqlite and postgres backends
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, LogLevel: %s, StoreBackend: %s, CloudID: %s, APIKeyID: %s, APIKey: [REDACTED], DBPath: %s, DBHost: %s, DBPort: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBSSLMode: %s}",
		c.Port, c.Host, c.Environment, c.LogLevel, c.StoreBackend, c.CloudID, c.APIKeyID,
		c.DBPath, c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBSSLMode)
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// The Elastic Cloud credentials are required when the elasticsearch backend is selected
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid APP_PORT: %d is out of range", port)
	}

	environment := GetEnvWithDefault("APP_ENV", "development")
	backend := strings.ToLower(GetEnvWithDefault("STORE_BACKEND", BackendElasticsearch))

	config := &Config{
		Port:         port,
		Host:         GetEnvWithDefault("APP_HOST", "127.0.0.1"),
		Environment:  environment,
		LogLevel:     GetEnvWithDefault("LOG_LEVEL", LevelForEnvironment(environment).String()),
		StoreBackend: backend,
		CloudID:      os.Getenv("CLOUD_ID"),
		APIKeyID:     os.Getenv("API_KEY_ID"),
		APIKey:       os.Getenv("API_KEY"),
		DBPath:       GetEnvWithDefault("DB_PATH", "pizzas.sqlite"),
		DBHost:       GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:       GetEnvWithDefault("DB_PORT", "5432"),
		DBName:       GetEnvWithDefault("DB_NAME", "pizzas"),
		DBUser:       GetEnvWithDefault("DB_USER", "postgres"),
		DBPassword:   GetEnvWithDefault("DB_PASSWORD", "postgres"),
		DBSSLMode:    GetEnvWithDefault("DB_SSLMODE", "disable"),
	}

	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch backend {
	case BackendElasticsearch:
		var missing []string
		for _, v := range []struct{ key, value string }{
			{"API_KEY", config.APIKey},
			{"API_KEY_ID", config.APIKeyID},
			{"CLOUD_ID", config.CloudID},
		} {
			if v.value == "" {
				missing = append(missing, v.key)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
	case BackendSQLite, BackendPostgres:
	default:
		return nil, errors.New("STORE_BACKEND must be one of elasticsearch, sqlite, postgres; got " + backend)
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// LevelForEnvironment returns the default log level of an environment
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}
