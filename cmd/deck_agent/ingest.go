package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/deck-builder/internal/pipeline"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <input>",
	Short: "Extract the structure of a document or web page",
	Long:  "Extracts title, headings and paragraphs from a docx, markdown, html or text file (or an http(s) URL) and prints the document as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

var (
	ingestOutput     string
	ingestUseBrowser bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "", "Write the document JSON to a file instead of stdout")
	ingestCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Render web pages in a headless browser (requires Chrome)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = ingestUseBrowser
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	doc, err := pipeline.ExtractDocument(context.Background(), args[0], cfg.UseBrowser, logger)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return writeOutput(ingestOutput, data)
}

// writeOutput writes data to path, or to stdout when path is empty
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
