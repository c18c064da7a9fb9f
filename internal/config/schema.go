// Package config loads and validates the slacknuke configuration file.
// The file is a JSON document; the only required key is slack_token.
package config

// Config представляет полную конфигурацию приложения
type Config struct {
	// SlackToken is the user OAuth token (xoxp-/xoxc-) used for all API calls.
	// Scopes needed: chat:write, channels:history, channels:read, groups:history,
	// groups:read, im:history, im:read, mpim:history, mpim:read, users:read.
	SlackToken string `json:"slack_token"`

	// APIBaseURL is the Slack Web API root.
	APIBaseURL string `json:"api_base_url"`

	// PageSize is the page size used for conversations.list and conversations.history.
	PageSize int `json:"page_size"`

	// InitialRetryDelaySeconds is the floor of the adaptive rate-limit delay.
	InitialRetryDelaySeconds int `json:"initial_retry_delay_seconds"`

	// MaxRetryDelaySeconds is the cap of the adaptive rate-limit delay.
	MaxRetryDelaySeconds int `json:"max_retry_delay_seconds"`

	// MaxRateLimitRetries bounds consecutive rate-limit retries per call.
	// 0 means retry without bound.
	MaxRateLimitRetries int `json:"max_rate_limit_retries"`

	// CacheFile is the path of the completion cache (JSON array of conversation IDs).
	CacheFile string `json:"cache_file"`

	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig представляет конфигурацию логирования
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, stderr, или путь к файлу
}
