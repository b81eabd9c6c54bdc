package config

import "time"

// WikiConfig holds the price feed client configuration
type WikiConfig struct {
	// Base URL of the real-time prices API
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// User-Agent sent with every request; the API rejects generic agents
	UserAgent string `mapstructure:"user_agent" validate:"required"`

	// Request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	Retry RetryConfig `mapstructure:"retry"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// CircuitBreakerConfig controls when the feed client stops calling a failing API
type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures" validate:"min=1"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// GuideConfig holds the official guide-price client configuration
type GuideConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	// Concurrent lookups when enriching a suggestion list
	Concurrency int `mapstructure:"concurrency" validate:"min=1,max=16"`
}
