package config

import (
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			// Setup: set environment variable if provided
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key) // ensure it's not set
			}

			result := GetEnvWithDefault(tt.key, tt.defaultValue)

			if result != tt.expected {
				t.Errorf("GetEnvWithDefault() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	vars := []string{
		"APP_PORT", "APP_HOST", "APP_ENV", "LOG_LEVEL", "STORE_BACKEND",
		"API_KEY", "API_KEY_ID", "CLOUD_ID", "DB_PATH",
	}

	// Helper function to cleanup env vars
	cleanupTestEnv := func() {
		for _, v := range vars {
			os.Unsetenv(v)
		}
	}

	// Helper function to set the Elastic Cloud credentials
	setCloudEnv := func() {
		os.Setenv("API_KEY", "secret-key")
		os.Setenv("API_KEY_ID", "key-id")
		os.Setenv("CLOUD_ID", "pizzas:ZXhhbXBsZS5jb20kYWJjJGRlZg==")
	}

	t.Run("successful config load with all env vars", func(t *testing.T) {
		cleanupTestEnv()
		setCloudEnv()
		os.Setenv("APP_PORT", "9000")
		os.Setenv("APP_HOST", "0.0.0.0")
		os.Setenv("LOG_LEVEL", "warning")
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("LoadConfig() returned error: %v", err)
		}
		if config.Port != 9000 {
			t.Errorf("Port = %d, expected 9000", config.Port)
		}
		if config.Host != "0.0.0.0" {
			t.Errorf("Host = %s, expected 0.0.0.0", config.Host)
		}
		if config.LogLevel != "warning" {
			t.Errorf("LogLevel = %s, expected warning", config.LogLevel)
		}
		if config.StoreBackend != BackendElasticsearch {
			t.Errorf("StoreBackend = %s, expected %s", config.StoreBackend, BackendElasticsearch)
		}
		if config.APIKey != "secret-key" || config.APIKeyID != "key-id" {
			t.Errorf("API key pair not loaded: %s / %s", config.APIKeyID, config.APIKey)
		}
	})

	t.Run("should fail when cloud credentials are missing", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("API_KEY_ID", "key-id")
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err == nil {
			t.Fatal("LoadConfig() should return error when API_KEY and CLOUD_ID are missing")
		}
		if config != nil {
			t.Error("Config should be nil when error occurs")
		}
		if !strings.Contains(err.Error(), "API_KEY") || !strings.Contains(err.Error(), "CLOUD_ID") {
			t.Errorf("error should name the missing variables, got: %v", err)
		}
		if strings.Contains(err.Error(), "API_KEY_ID") {
			t.Errorf("error should not name API_KEY_ID, got: %v", err)
		}
	})

	t.Run("should fail with invalid port", func(t *testing.T) {
		cleanupTestEnv()
		setCloudEnv()
		os.Setenv("APP_PORT", "not_a_number")
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err == nil {
			t.Error("LoadConfig() should return error when APP_PORT is invalid")
		}
		if config != nil {
			t.Error("Config should be nil when error occurs")
		}
	})

	t.Run("should fail with unknown backend", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("STORE_BACKEND", "mongodb")
		defer cleanupTestEnv()

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should return error for an unsupported STORE_BACKEND")
		}
	})

	t.Run("should use defaults when optional env vars not set", func(t *testing.T) {
		cleanupTestEnv()
		setCloudEnv()
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("LoadConfig() returned unexpected error: %v", err)
		}
		if config.Port != 8080 {
			t.Errorf("Port = %d, expected default 8080", config.Port)
		}
		if config.Host != "127.0.0.1" {
			t.Errorf("Host = %s, expected default 127.0.0.1", config.Host)
		}
		if config.Address() != "127.0.0.1:8080" {
			t.Errorf("Address = %s, expected 127.0.0.1:8080", config.Address())
		}
		if config.LogLevel != "debug" {
			t.Errorf("LogLevel = %s, expected development default debug", config.LogLevel)
		}
	})

	t.Run("sqlite backend does not need cloud credentials", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("STORE_BACKEND", "SQLite")
		os.Setenv("DB_PATH", "/tmp/pizzas.sqlite")
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("LoadConfig() returned unexpected error: %v", err)
		}
		if config.StoreBackend != BackendSQLite {
			t.Errorf("StoreBackend = %s, expected %s", config.StoreBackend, BackendSQLite)
		}
		if config.DBPath != "/tmp/pizzas.sqlite" {
			t.Errorf("DBPath = %s, expected /tmp/pizzas.sqlite", config.DBPath)
		}
	})
}

func TestConfigStringRedactsSecrets(t *testing.T) {
	config := &Config{APIKey: "super-secret", DBPassword: "db-secret", CloudID: "pizzas:abc"}

	s := config.String()

	if strings.Contains(s, "super-secret") || strings.Contains(s, "db-secret") {
		t.Errorf("String() leaked a secret: %s", s)
	}
	if !strings.Contains(s, "pizzas:abc") {
		t.Errorf("String() should include the cloud id: %s", s)
	}
}

func TestLevelForEnvironment(t *testing.T) {
	testCases := map[string]logrus.Level{
		"development": logrus.DebugLevel,
		"production":  logrus.ErrorLevel,
		"staging":     logrus.InfoLevel,
	}
	for env, expected := range testCases {
		if got := LevelForEnvironment(env); got != expected {
			t.Errorf("LevelForEnvironment(%s) = %v, expected %v", env, got, expected)
		}
	}
}

func BenchmarkGetEnvWithDefault(b *testing.B) {
	os.Setenv("BENCH_KEY", "test_value")
	defer os.Unsetenv("BENCH_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetEnvWithDefault("BENCH_KEY", "default")
	}
}
