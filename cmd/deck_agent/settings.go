package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/deck-builder/internal/assembly"
	"github.com/jonathan/deck-builder/internal/config"
	"github.com/jonathan/deck-builder/internal/llm"
	"github.com/jonathan/deck-builder/internal/logging"
	"github.com/jonathan/deck-builder/internal/matching"
	"github.com/jonathan/deck-builder/internal/observability"
	"github.com/jonathan/deck-builder/internal/populate"
	"github.com/jonathan/deck-builder/internal/types"
)

// Flags shared by every subcommand
var (
	configPath string
	logLevel   string
	logFormat  string
	apiKey     string
	modelName  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a .json, .toml or .yaml config file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Gemini model name")
}

// loadSettings resolves the configuration: defaults, then the config file, then the
// environment, then explicitly set flags.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = loaded.MergeWithDefaults(config.Default())
	}

	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKey
	}
	if flags.Changed("model") {
		cfg.Model = modelName
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// llmConfig maps the model settings onto a Gemini client configuration
func llmConfig(cfg config.Config) *llm.Config {
	c := llm.DefaultConfig().
		WithModel(cfg.Model).
		WithRetry(cfg.MaxRetries, cfg.RetryBaseDelay())
	c.Temperature = cfg.Temperature
	c.MaxOutputTokens = cfg.MaxOutputTokens
	return c
}

func assemblyOptions(cfg config.Config) assembly.Options {
	return assembly.Options{
		Matching: matching.Options{RichnessBonus: cfg.LayoutBonus()},
		Populate: populate.Options{
			MaxBodyBullets:   cfg.BulletLimit(),
			ContinuationText: cfg.ContinuationText,
		},
	}
}

func printWarnings(warnings []types.Warning) {
	for _, w := range warnings {
		_, _ = fmt.Fprintln(os.Stderr, observability.FormatWarning(w))
	}
}

func requireAPIKey(cfg config.Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (use --api-key flag or set %s environment variable)", config.EnvAPIKey)
	}
	return nil
}

// jsonPathFor places the deck JSON next to the presentation
func jsonPathFor(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".json"
}
