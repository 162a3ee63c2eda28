// Package config loads application configuration from command-line
// flags, environment variables, a .env file, and defaults, in that
// order of precedence.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Server ServerConfig
	Store  StoreConfig
	GenAI  GenAIConfig
	Pins   PinsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// StoreConfig holds database configuration.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string
}

// GenAIConfig holds generation proxy configuration.
type GenAIConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	VisionModel string
	RPS         float64
	Burst       int
	Timeout     time.Duration
}

// PinsConfig holds pinned-items seeding configuration.
type PinsConfig struct {
	// ConfigVersion is the current seed version; users whose stored
	// version is older get defaults re-applied.
	ConfigVersion string
	// DefaultPinID is pinned for new users.
	DefaultPinID string
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	dbPath := flag.String("db-path", "", "SQLite database file (default: data/pins.db)")

	genaiAPIKey := flag.String("gemini-api-key", "", "Generation API key")
	genaiBaseURL := flag.String("genai-base-url", "", "Generation API base URL")
	chatModel := flag.String("chat-model", "", "Model for text chat (default: gemini-2.5-pro)")
	visionModel := flag.String("vision-model", "", "Model for vision chat (default: gemini-pro-vision)")
	genaiRPS := flag.String("genai-rps", "", "Per-model generation requests per second (default: 2)")
	genaiBurst := flag.String("genai-burst", "", "Per-model generation burst size (default: 4)")
	genaiTimeout := flag.String("genai-timeout", "", "Non-streamed generation timeout (default: 60s)")

	configVersion := flag.String("config-version", "", "Seed config version (default: v0.10.0)")
	defaultPin := flag.String("default-pin", "", "Item pinned for new users (default: g4)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Missing .env is fine; flags and env vars still apply.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitOrigins(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Store: StoreConfig{
			Path: getConfigValue(*dbPath, "DB_PATH", "data/pins.db"),
		},
		GenAI: GenAIConfig{
			APIKey:      getConfigValue(*genaiAPIKey, "GEMINI_API_KEY", ""),
			BaseURL:     getConfigValue(*genaiBaseURL, "GOOGLE_API_BASE_URL", ""),
			ChatModel:   getConfigValue(*chatModel, "CHAT_MODEL", "gemini-2.5-pro"),
			VisionModel: getConfigValue(*visionModel, "VISION_MODEL", "gemini-pro-vision"),
			RPS:         getFloatConfigValue(*genaiRPS, "GENAI_RPS", 2),
			Burst:       getIntConfigValue(*genaiBurst, "GENAI_BURST", 4),
		},
		Pins: PinsConfig{
			ConfigVersion: getConfigValue(*configVersion, "CONFIG_VERSION", "v0.10.0"),
			DefaultPinID:  getConfigValue(*defaultPin, "DEFAULT_PIN_ID", "g4"),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}
	if cfg.GenAI.Timeout, err = parseDurationValue(*genaiTimeout, "GENAI_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid generation timeout: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.Path == "" {
		return errors.New("database path cannot be empty")
	}
	if c.Pins.ConfigVersion == "" {
		return errors.New("config version cannot be empty")
	}
	if c.Pins.DefaultPinID == "" {
		return errors.New("default pin ID cannot be empty")
	}
	if c.GenAI.RPS <= 0 {
		return fmt.Errorf("generation RPS must be positive, got %v", c.GenAI.RPS)
	}
	if c.GenAI.Burst <= 0 {
		return fmt.Errorf("generation burst must be positive, got %d", c.GenAI.Burst)
	}

	// An empty GenAI.APIKey is allowed: the pin endpoints still work and
	// generation calls fail with a clear error.

	return nil
}

func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// parseDurationValue resolves flag/env/default and parses it as a duration.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", strValue, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over .env entries.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
