package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/deck-builder/internal/config"
	"github.com/jonathan/deck-builder/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a document or web page into a slide deck",
	Long: `Runs the whole conversion: extract the document, ask the model for an outline, analyze the template,
match layouts, fill placeholders and write the deck.

The template can be a .pptx/.potx file, a .yaml/.json layout catalog or omitted (built-in Office layouts).
Without a .pptx template the deck is written as JSON only.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var (
	convertTemplate    string
	convertOutput      string
	convertJSON        bool
	convertVerbose     bool
	convertUseBrowser  bool
	convertMaxBullets  int
	convertDatabaseURL string
)

func init() {
	convertCmd.Flags().StringVarP(&convertTemplate, "template", "t", "", "Path to a .pptx/.potx template or a layout catalog")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output .pptx path (defaults to the input name with .pptx)")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "Also write the deck as JSON next to the output")
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "Print document, outline, catalog and deck summaries")
	convertCmd.Flags().BoolVar(&convertUseBrowser, "use-browser", false, "Render web pages in a headless browser (requires Chrome)")
	convertCmd.Flags().IntVar(&convertMaxBullets, "max-bullets", 0, "Bullets per body placeholder before truncation")
	// Database URL for artifact persistence
	convertCmd.Flags().StringVar(&convertDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// CLI flags take priority; only override when explicitly set
	flags := cmd.Flags()
	if flags.Changed("template") {
		cfg.Template = convertTemplate
	}
	if flags.Changed("output") {
		cfg.Output = convertOutput
	}
	if flags.Changed("json") {
		cfg.WriteJSON = convertJSON
	}
	if flags.Changed("verbose") {
		cfg.Verbose = convertVerbose
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = convertUseBrowser
	}
	if flags.Changed("max-bullets") {
		cfg.MaxBodyBullets = config.Int(convertMaxBullets)
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = convertDatabaseURL
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	input := args[0]
	output := cfg.Output
	if output == "" {
		output = pipeline.DefaultOutputPath(input)
	}
	var jsonPath string
	if cfg.WriteJSON {
		jsonPath = jsonPathFor(output)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := pipeline.Run(ctx, pipeline.Options{
		InputPath:      input,
		TemplatePath:   cfg.Template,
		OutputPath:     output,
		JSONPath:       jsonPath,
		APIKey:         cfg.APIKey,
		LLM:            llmConfig(cfg),
		RequestTimeout: cfg.RequestTimeout(),
		Assembly:       assemblyOptions(cfg),
		UseBrowser:     cfg.UseBrowser,
		Verbose:        cfg.Verbose,
		DatabaseURL:    cfg.DatabaseURL,
		Logger:         logger,
		Out:            os.Stdout,
	})
	if err != nil {
		return err
	}

	if !cfg.Verbose {
		printWarnings(result.Deck.Warnings)
	}
	logger.Debug("run finished", zap.String("run_id", result.RunID.String()))

	_, _ = fmt.Fprintf(os.Stdout, "Successfully built %d slides\n", len(result.Deck.Slides))
	if result.OutputPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Presentation: %s\n", result.OutputPath)
	}
	if result.JSONPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Deck JSON: %s\n", result.JSONPath)
	}
	return nil
}
