// Package llm wraps the Gemini API used to turn document text into a slide outline.
package llm

import "time"

// DefaultModel is the Gemini model used for outline generation
const DefaultModel = "gemini-2.5-flash"

// Config holds the model configuration for outline generation
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Retry           RetryPolicy
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Model:           DefaultModel,
		Temperature:     0.2,
		MaxOutputTokens: 8192,
		Retry:           DefaultRetryPolicy(),
	}
}

// WithModel returns a copy of the config using a different model
func (c *Config) WithModel(model string) *Config {
	next := *c
	if model != "" {
		next.Model = model
	}
	return &next
}

// WithRetry returns a copy of the config with retry settings taken from plain values.
// Zero values keep the current setting.
func (c *Config) WithRetry(maxRetries int, baseDelay time.Duration) *Config {
	next := *c
	if maxRetries > 0 {
		next.Retry.MaxRetries = maxRetries
	}
	if baseDelay > 0 {
		next.Retry.BaseDelay = baseDelay
	}
	return &next
}
