// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/deck-builder/internal/llm"
)

// Environment variables that override file values
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "DECK_LOG_LEVEL"
)

// Config represents the CLI configuration that can be loaded from a JSON, TOML or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Template string `json:"template,omitempty" toml:"template" yaml:"template,omitempty"` // .pptx/.potx template or catalog file
	Output   string `json:"output,omitempty" toml:"output" yaml:"output,omitempty"`       // Output .pptx path

	// Model
	APIKey                string  `json:"api_key,omitempty" toml:"api_key" yaml:"api_key,omitempty"`
	Model                 string  `json:"model,omitempty" toml:"model" yaml:"model,omitempty"`
	Temperature           float32 `json:"temperature,omitempty" toml:"temperature" yaml:"temperature,omitempty" validate:"min=0,max=2"`
	MaxOutputTokens       int32   `json:"max_output_tokens,omitempty" toml:"max_output_tokens" yaml:"max_output_tokens,omitempty" validate:"min=0"`
	MaxRetries            int     `json:"max_retries,omitempty" toml:"max_retries" yaml:"max_retries,omitempty" validate:"min=0,max=10"`
	RetryBaseDelayMS      int     `json:"retry_base_delay_ms,omitempty" toml:"retry_base_delay_ms" yaml:"retry_base_delay_ms,omitempty" validate:"min=0"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds,omitempty" toml:"request_timeout_seconds" yaml:"request_timeout_seconds,omitempty" validate:"min=0"`

	// Assembly
	// Pointers so an explicit 0 in a file (no truncation, no bonus) survives MergeWithDefaults
	MaxBodyBullets   *int     `json:"max_body_bullets,omitempty" toml:"max_body_bullets" yaml:"max_body_bullets,omitempty" validate:"omitempty,min=0"` // Truncation threshold per BODY slot
	RichnessBonus    *float64 `json:"richness_bonus,omitempty" toml:"richness_bonus" yaml:"richness_bonus,omitempty" validate:"omitempty,min=0,max=1"`
	ContinuationText string   `json:"continuation_text,omitempty" toml:"continuation_text" yaml:"continuation_text,omitempty"`

	// Behavior
	LogLevel    string `json:"log_level,omitempty" toml:"log_level" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat   string `json:"log_format,omitempty" toml:"log_format" yaml:"log_format,omitempty" validate:"omitempty,oneof=console json"`
	UseBrowser  bool   `json:"use_browser,omitempty" toml:"use_browser" yaml:"use_browser,omitempty"` // Render HTML sources in a headless browser
	Verbose     bool   `json:"verbose,omitempty" toml:"verbose" yaml:"verbose,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	WriteJSON   bool   `json:"write_json,omitempty" toml:"write_json" yaml:"write_json,omitempty"`        // Also write the deck as JSON
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Model:                 llm.DefaultModel,
		Temperature:           0.2,
		MaxOutputTokens:       8192,
		MaxRetries:            3,
		RetryBaseDelayMS:      100,
		RequestTimeoutSeconds: 120,
		MaxBodyBullets:        Int(8),
		RichnessBonus:         Float(0.1),
		ContinuationText:      "…",
		LogLevel:              "info",
		LogFormat:             "console",
	}
}

// LoadConfig loads configuration from a file. The format follows the extension:
// .json, .toml, or .yaml/.yml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .json, .toml, .yaml or .yml)", ext)
	}

	return &cfg, nil
}

// ApplyEnv overrides values with GEMINI_API_KEY, DATABASE_URL and DECK_LOG_LEVEL when set
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %s", extractValidationErrors(err))
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// jsonFieldName reports fields by their file key
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			ve := validationErrors[0]
			if ve.Param() != "" {
				return fmt.Sprintf("'%s' failed '%s=%s'", ve.Field(), ve.Tag(), ve.Param())
			}
			return fmt.Sprintf("'%s' failed '%s'", ve.Field(), ve.Tag())
		}
	}
	return err.Error()
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.ContinuationText == "" {
		result.ContinuationText = defaults.ContinuationText
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.RetryBaseDelayMS == 0 {
		result.RetryBaseDelayMS = defaults.RetryBaseDelayMS
	}
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
	if result.MaxBodyBullets == nil {
		result.MaxBodyBullets = defaults.MaxBodyBullets
	}
	if result.RichnessBonus == nil {
		result.RichnessBonus = defaults.RichnessBonus
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// RetryBaseDelay returns the retry base delay as a duration
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

// RequestTimeout returns the model request timeout as a duration; zero means no timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// BulletLimit returns the truncation threshold; zero disables truncation
func (c *Config) BulletLimit() int {
	if c.MaxBodyBullets == nil {
		return 0
	}
	return *c.MaxBodyBullets
}

// LayoutBonus returns the per-slot richness bonus used when ranking layouts
func (c *Config) LayoutBonus() float64 {
	if c.RichnessBonus == nil {
		return 0
	}
	return *c.RichnessBonus
}

// Int returns a pointer to v
func Int(v int) *int { return &v }

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }
