// Package main provides the entry point for the deck_agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "deck_agent",
	Short:         "Document to slide deck converter",
	Long:          "deck_agent turns a document (docx, markdown, html or text) into a slide deck built from the layouts of a PowerPoint template, using a language model to outline the content.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
