// Package config loads and validates the application configuration from
// environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port              string
	Address           string
	Env               string
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	// AI provider settings
	GeminiAPIKey     string
	PerplexityAPIKey string
	HuggingFaceToken string // optional; the secondary fallback is skipped without it

	GeminiModel      string
	PerplexityModel  string
	HuggingFaceModel string

	GeminiTimeout    time.Duration // budget for the primary provider
	APITimeout       time.Duration // budget for every other provider
	DegradedFallback bool          // serve canned reports when every provider fails
}

// Load loads and validates configuration from environment variables.
// It fails fast when required provider credentials are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               strings.ToLower(getEnvWithDefault("ENV", "dev")),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:            getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		PerplexityAPIKey: os.Getenv("PERPLEXITY_API_KEY"),
		HuggingFaceToken: os.Getenv("HF_TOKEN"),

		GeminiModel:      getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		PerplexityModel:  getEnvWithDefault("PERPLEXITY_MODEL", "llama-3.1-sonar-large-128k-online"),
		HuggingFaceModel: getEnvWithDefault("HF_MODEL", "meta-llama/Meta-Llama-3.1-8B-Instruct"),

		GeminiTimeout: getMillisEnvWithDefault("GEMINI_TIMEOUT_MS", 25000),
		APITimeout:    getMillisEnvWithDefault("API_TIMEOUT_MS", 30000),
	}

	// Degraded fallback defaults to on in dev, off elsewhere.
	cfg.DegradedFallback = getBoolEnvWithDefault("DEGRADED_FALLBACK", cfg.Env == "dev")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values.
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return err
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return err
	}

	if cfg.LogRetentionWeeks <= 0 || cfg.LogRetentionWeeks > 52 {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: must be between 1 and 52, got %d", cfg.LogRetentionWeeks)
	}

	if err := validateCredentials(cfg); err != nil {
		return err
	}

	if err := validateTimeout(cfg.GeminiTimeout, "GEMINI_TIMEOUT_MS"); err != nil {
		return err
	}

	if err := validateTimeout(cfg.APITimeout, "API_TIMEOUT_MS"); err != nil {
		return err
	}

	return nil
}

// validateCredentials ensures credentials for the required providers exist.
// The HuggingFace token is optional: without it the secondary fallback is
// simply not registered.
func validateCredentials(cfg *Config) error {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if strings.TrimSpace(cfg.PerplexityAPIKey) == "" {
		return fmt.Errorf("PERPLEXITY_API_KEY environment variable is required")
	}
	return nil
}

func validateTimeout(d time.Duration, name string) error {
	if d < time.Second {
		return fmt.Errorf("invalid %s: must be at least 1000ms, got %v", name, d)
	}
	if d > 5*time.Minute {
		return fmt.Errorf("invalid %s: must be at most 5 minutes, got %v", name, d)
	}
	return nil
}

// validatePort validates the PORT environment variable.
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable.
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable.
func validateEnv(env string) error {
	validEnvs := []string{"dev", "staging", "prod", "test"}
	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}
	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable.
func validateLogLevel(logLevel string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)
	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}
	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values.
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("invalid %s: must be positive, got: %d", configName, size)
	}
	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("invalid %s: too large (max 100MB), got: %d bytes", configName, size)
	}
	return nil
}

// getEnvWithDefault gets an environment variable with a default value.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value.
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value.
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getMillisEnvWithDefault gets an environment variable holding milliseconds.
func getMillisEnvWithDefault(key string, defaultMillis int64) time.Duration {
	ms := getInt64EnvWithDefault(key, defaultMillis)
	return time.Duration(ms) * time.Millisecond
}

// getBoolEnvWithDefault gets an environment variable as bool with a default value.
func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
