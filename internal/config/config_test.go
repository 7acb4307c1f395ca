package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "config.json",
			content: `{
				"template": "corporate.pptx",
				"model": "gemini-2.5-pro",
				"max_body_bullets": 6,
				"richness_bonus": 0.25,
				"verbose": true
			}`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `template = "corporate.pptx"
model = "gemini-2.5-pro"
max_body_bullets = 6
richness_bonus = 0.25
verbose = true
`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `template: corporate.pptx
model: gemini-2.5-pro
max_body_bullets: 6
richness_bonus: 0.25
verbose: true
`,
		},
		{
			name: "yml",
			file: "config.yml",
			content: `template: corporate.pptx
model: gemini-2.5-pro
max_body_bullets: 6
richness_bonus: 0.25
verbose: true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			require.NotNil(t, cfg)

			assert.Equal(t, "corporate.pptx", cfg.Template)
			assert.Equal(t, "gemini-2.5-pro", cfg.Model)
			assert.Equal(t, 6, cfg.BulletLimit())
			assert.InDelta(t, 0.25, cfg.LayoutBonus(), 1e-9)
			assert.True(t, cfg.Verbose)
		})
	}
}

func TestLoadConfig_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{name: "json", file: "config.json", content: `{ invalid json }`, want: "failed to parse config JSON"},
		{name: "toml", file: "config.toml", content: `template = `, want: "failed to parse config TOML"},
		{name: "yaml", file: "config.yaml", content: "template: [unclosed", want: "failed to parse config YAML"},
		{name: "unsupported extension", file: "config.ini", content: "template=x", want: "unsupported config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "negative bullets", cfg: Config{MaxBodyBullets: Int(-1)}, want: "'max_body_bullets' failed 'min=0'"},
		{name: "bonus above one", cfg: Config{RichnessBonus: Float(1.5)}, want: "'richness_bonus' failed 'max=1'"},
		{name: "too many retries", cfg: Config{MaxRetries: 11}, want: "'max_retries' failed 'max=10'"},
		{name: "temperature", cfg: Config{Temperature: 3}, want: "'temperature' failed 'max=2'"},
		{name: "log level", cfg: Config{LogLevel: "verbose"}, want: "'log_level' failed 'oneof=debug info warn error'"},
		{name: "log format", cfg: Config{LogFormat: "xml"}, want: "'log_format' failed 'oneof=console json'"},
		{name: "missing template", cfg: Config{Template: "/nonexistent/template.pptx"}, want: "template file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	empty := &Config{}
	assert.NoError(t, empty.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Template:       "custom.pptx",
		MaxBodyBullets: Int(5),
		LogLevel:       "debug",
	}

	merged := partial.MergeWithDefaults(Default())

	// Custom values should be preserved
	assert.Equal(t, "custom.pptx", merged.Template)
	assert.Equal(t, 5, merged.BulletLimit())
	assert.Equal(t, "debug", merged.LogLevel)

	// Default values should fill in empty fields
	assert.Equal(t, "gemini-2.5-flash", merged.Model)
	assert.Equal(t, 3, merged.MaxRetries)
	assert.Equal(t, 100, merged.RetryBaseDelayMS)
	assert.InDelta(t, 0.1, merged.LayoutBonus(), 1e-9)
	assert.Equal(t, "…", merged.ContinuationText)
	assert.Equal(t, "console", merged.LogFormat)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Template: "deck.pptx", MaxRetries: 2}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "deck.pptx", merged.Template)
	assert.Equal(t, 2, merged.MaxRetries)
	assert.Nil(t, merged.MaxBodyBullets)
	assert.Zero(t, merged.BulletLimit())
}

func TestMergeWithDefaults_KeepsExplicitZero(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json", file: "config.json", content: `{"max_body_bullets": 0, "richness_bonus": 0}`},
		{name: "toml", file: "config.toml", content: "max_body_bullets = 0\nrichness_bonus = 0.0\n"},
		{name: "yaml", file: "config.yaml", content: "max_body_bullets: 0\nrichness_bonus: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			merged := cfg.MergeWithDefaults(Default())
			require.NotNil(t, merged.MaxBodyBullets)
			require.NotNil(t, merged.RichnessBonus)
			assert.Zero(t, merged.BulletLimit())
			assert.Zero(t, merged.LayoutBonus())
		})
	}
}

func TestMergeWithDefaults_FillsMissingAssemblyKeys(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "model: gemini-2.5-pro\n"))
	require.NoError(t, err)

	merged := cfg.MergeWithDefaults(Default())
	assert.Equal(t, 8, merged.BulletLimit())
	assert.InDelta(t, 0.1, merged.LayoutBonus(), 1e-9)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvDatabaseURL, "postgres://localhost/decks")
	t.Setenv(EnvLogLevel, "WARN")

	cfg := Config{APIKey: "file-key", LogLevel: "info"}
	cfg.ApplyEnv()

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/decks", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestApplyEnv_Unset(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg := Config{APIKey: "file-key"}
	cfg.ApplyEnv()

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100*time.Millisecond, cfg.RetryBaseDelay())
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout())
}
