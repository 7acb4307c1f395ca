package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/deck-builder/internal/observability"
	"github.com/jonathan/deck-builder/internal/templates"
)

var analyzeTemplateCmd = &cobra.Command{
	Use:   "analyze-template [template.pptx|catalog.yaml]",
	Short: "List the layouts and placeholder slots of a template",
	Long:  "Reads the slide layouts of a .pptx/.potx template (or a catalog file) and prints the layout catalog. Without an argument the built-in Office catalog is printed.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyzeTemplate,
}

var (
	analyzeFormat  string
	analyzeOutput  string
	analyzeSummary bool
)

func init() {
	analyzeTemplateCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "yaml", "Output format: yaml or json")
	analyzeTemplateCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the catalog to a file instead of stdout")
	analyzeTemplateCmd.Flags().BoolVar(&analyzeSummary, "summary", false, "Print a human-readable summary instead of the catalog")

	rootCmd.AddCommand(analyzeTemplateCmd)
}

func runAnalyzeTemplate(_ *cobra.Command, args []string) error {
	if analyzeFormat != "yaml" && analyzeFormat != "yml" && analyzeFormat != "json" {
		return fmt.Errorf("unsupported format %q (use yaml or json)", analyzeFormat)
	}

	catalog := templates.DefaultCatalog()
	if len(args) == 1 {
		c, err := templates.Load(args[0])
		if err != nil {
			return err
		}
		catalog = c
	}

	if analyzeSummary {
		observability.NewPrinter(os.Stdout).PrintCatalog(catalog)
		return nil
	}

	var buf bytes.Buffer
	if err := templates.WriteCatalog(&buf, catalog, analyzeFormat); err != nil {
		return err
	}
	return writeOutput(analyzeOutput, bytes.TrimRight(buf.Bytes(), "\n"))
}
