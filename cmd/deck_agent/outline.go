package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/deck-builder/internal/generation"
	"github.com/jonathan/deck-builder/internal/llm"
	"github.com/jonathan/deck-builder/internal/outline"
	"github.com/jonathan/deck-builder/internal/pipeline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <input>",
	Short: "Generate a slide outline for a document",
	Long:  "Extracts the document and asks the model for a slide outline. The validated outline JSON can be edited and passed to the assemble command.",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

var (
	outlineOutput     string
	outlineUseBrowser bool
)

func init() {
	outlineCmd.Flags().StringVarP(&outlineOutput, "output", "o", "", "Write the outline JSON to a file instead of stdout")
	outlineCmd.Flags().BoolVar(&outlineUseBrowser, "use-browser", false, "Render web pages in a headless browser (requires Chrome)")

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = outlineUseBrowser
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	doc, err := pipeline.ExtractDocument(ctx, args[0], cfg.UseBrowser, logger)
	if err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(ctx, llmConfig(cfg), cfg.APIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if timeout := cfg.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	raw, err := generation.New(client, generation.WithLogger(logger)).Generate(ctx, doc)
	if err != nil {
		return err
	}

	// Surface structural problems now rather than at assembly time
	built, err := outline.Build(raw)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}
	if err := writeOutput(outlineOutput, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "Outline has %d slides\n", len(built.Slides))
	return nil
}
