package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultConfigPath is the config file looked up when --config is not given.
const DefaultConfigPath = "config.json"

// Load загружает конфигурацию из JSON файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() []error {
	var errors []error

	// Проверка токена
	if c.SlackToken == "" {
		errors = append(errors, fmt.Errorf("slack_token is required"))
	} else if err := validateToken(c.SlackToken); err != nil {
		errors = append(errors, err)
	}

	if c.APIBaseURL == "" {
		errors = append(errors, fmt.Errorf("api_base_url cannot be empty"))
	} else if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		errors = append(errors, fmt.Errorf("invalid api_base_url: %s (expected http or https URL)", c.APIBaseURL))
	}

	if c.PageSize < 1 || c.PageSize > 1000 {
		errors = append(errors, fmt.Errorf("invalid page_size: %d (expected 1-1000)", c.PageSize))
	}

	// Проверка параметров backoff
	if c.InitialRetryDelaySeconds < 1 {
		errors = append(errors, fmt.Errorf("invalid initial_retry_delay_seconds: %d (expected >= 1)", c.InitialRetryDelaySeconds))
	}
	if c.MaxRetryDelaySeconds < c.InitialRetryDelaySeconds {
		errors = append(errors, fmt.Errorf("invalid max_retry_delay_seconds: %d (expected >= initial_retry_delay_seconds)", c.MaxRetryDelaySeconds))
	}
	if c.MaxRateLimitRetries < 0 {
		errors = append(errors, fmt.Errorf("invalid max_rate_limit_retries: %d (expected >= 0, 0 = unbounded)", c.MaxRateLimitRetries))
	}

	if c.CacheFile == "" {
		errors = append(errors, fmt.Errorf("cache_file cannot be empty"))
	}

	// Проверка logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	return errors
}

// validateToken проверяет форму Slack токена
func validateToken(token string) error {
	if !strings.HasPrefix(token, "xox") {
		return fmt.Errorf("slack_token has invalid format (expected xox?-... token, got: %s)", maskSecret(token))
	}
	if len(token) < 10 {
		return fmt.Errorf("slack_token is too short (minimum 10 characters, got %d)", len(token))
	}
	return nil
}

// applyDefaults применяет значения по умолчанию
func applyDefaults(c *Config) {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://slack.com/api"
	}
	if c.PageSize == 0 {
		c.PageSize = 200
	}
	if c.InitialRetryDelaySeconds == 0 {
		c.InitialRetryDelaySeconds = 2
	}
	if c.MaxRetryDelaySeconds == 0 {
		c.MaxRetryDelaySeconds = 300
	}
	if c.CacheFile == "" {
		c.CacheFile = "processed_conversations.json"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// expandEnvVars расширяет переменные окружения в конфигурации
func expandEnvVars(c *Config) {
	if strings.HasPrefix(c.SlackToken, "${") {
		c.SlackToken = expandEnv(c.SlackToken)
	}
	if strings.HasPrefix(c.CacheFile, "${") {
		c.CacheFile = expandEnv(c.CacheFile)
	}
}

// expandEnv расширяет переменную окружения формата ${VAR:default}
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		key := parts[0]
		defaultVal := parts[1]
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}

	// Без значения по умолчанию
	return os.Getenv(s[2:end])
}
