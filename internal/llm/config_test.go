package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash", config.Model)
	assert.Equal(t, 3, config.Retry.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, config.Retry.BaseDelay)
}

func TestWithModel(t *testing.T) {
	original := DefaultConfig()
	custom := original.WithModel("gemini-2.5-pro")

	assert.Equal(t, "gemini-2.5-pro", custom.Model)
	assert.Equal(t, DefaultModel, original.Model, "original config should be unchanged")
	assert.Equal(t, DefaultModel, original.WithModel("").Model)
}

func TestWithRetry(t *testing.T) {
	original := DefaultConfig()

	custom := original.WithRetry(5, 250*time.Millisecond)
	assert.Equal(t, 5, custom.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, custom.Retry.BaseDelay)

	unchanged := original.WithRetry(0, 0)
	assert.Equal(t, original.Retry, unchanged.Retry)
}
