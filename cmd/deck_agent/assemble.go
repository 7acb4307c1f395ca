package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/deck-builder/internal/assembly"
	"github.com/jonathan/deck-builder/internal/config"
	"github.com/jonathan/deck-builder/internal/matching"
	"github.com/jonathan/deck-builder/internal/observability"
	"github.com/jonathan/deck-builder/internal/outline"
	"github.com/jonathan/deck-builder/internal/pipeline"
	"github.com/jonathan/deck-builder/internal/types"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Build a deck from an outline without calling the model",
	Long: `Matches every slide of an outline to a template layout, fills the placeholders and writes the deck.

The outline comes from a JSON file (--outline) or from an earlier convert run stored in the database (--run-id).
Layouts come from --catalog when given, otherwise from --template, otherwise from the stored run, otherwise
the built-in Office catalog.`,
	Args: cobra.NoArgs,
	RunE: runAssemble,
}

var (
	assembleOutline     string
	assembleRunID       string
	assembleCatalog     string
	assembleTemplate    string
	assembleOutput      string
	assembleJSON        string
	assembleVerbose     bool
	assembleMaxBullets  int
	assembleDatabaseURL string
)

func init() {
	assembleCmd.Flags().StringVar(&assembleOutline, "outline", "", "Path to outline JSON (mutually exclusive with --run-id)")
	assembleCmd.Flags().StringVar(&assembleRunID, "run-id", "", "Reuse the outline and catalog stored by a convert run (mutually exclusive with --outline)")
	assembleCmd.Flags().StringVar(&assembleCatalog, "catalog", "", "Path to a .yaml/.json layout catalog")
	assembleCmd.Flags().StringVarP(&assembleTemplate, "template", "t", "", "Path to a .pptx/.potx template")
	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", "", "Output .pptx path (defaults to deck.pptx next to the outline, or in the current directory for --run-id)")
	assembleCmd.Flags().StringVar(&assembleJSON, "json", "", "Also write the deck as JSON to this path")
	assembleCmd.Flags().BoolVarP(&assembleVerbose, "verbose", "v", false, "Print layout candidates and the deck summary")
	assembleCmd.Flags().IntVar(&assembleMaxBullets, "max-bullets", 0, "Bullets per body placeholder before truncation")
	assembleCmd.Flags().StringVar(&assembleDatabaseURL, "db-url", "", "PostgreSQL connection URL for --run-id (defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(assembleCmd)
}

// assemblyInput is an outline with the layouts and paths it is assembled against
type assemblyInput struct {
	Outline      *types.Outline
	Catalog      *types.LayoutCatalog
	TemplatePath string
	OutputPath   string
	ImageDir     string
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	// Validate mutually exclusive flags
	if assembleOutline == "" && assembleRunID == "" {
		return fmt.Errorf("either --outline or --run-id must be provided")
	}
	if assembleOutline != "" && assembleRunID != "" {
		return fmt.Errorf("--outline and --run-id are mutually exclusive; provide only one")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("template") {
		cfg.Template = assembleTemplate
	}
	if flags.Changed("output") {
		cfg.Output = assembleOutput
	}
	if flags.Changed("max-bullets") {
		cfg.MaxBodyBullets = config.Int(assembleMaxBullets)
	}
	if flags.Changed("verbose") {
		cfg.Verbose = assembleVerbose
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = assembleDatabaseURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var input *assemblyInput
	if assembleRunID != "" {
		ctx := context.Background()
		runID, err := parseRunID(assembleRunID)
		if err != nil {
			return err
		}
		database, err := openStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		input, err = inputFromRun(ctx, database, runID, cfg, assembleCatalog, flags.Changed("template"))
		if err != nil {
			return err
		}
	} else {
		input, err = inputFromFile(assembleOutline, cfg, assembleCatalog)
		if err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintOutline(input.Outline)
		printer.PrintCatalog(input.Catalog)
		printCandidates(printer, input.Outline, input.Catalog, assemblyOptions(cfg))
	}

	deck, err := assembly.New(assemblyOptions(cfg)).Assemble(input.Outline, input.Catalog)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintDeck(deck)
		printer.PrintWarnings(deck.Warnings)
	} else {
		printWarnings(deck.Warnings)
	}

	pptxPath, jsonPath, err := pipeline.WriteDeck(deck, input.Catalog, pipeline.WriteOptions{
		TemplatePath: input.TemplatePath,
		OutputPath:   input.OutputPath,
		JSONPath:     assembleJSON,
		ImageDir:     input.ImageDir,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully built %d slides\n", len(deck.Slides))
	if pptxPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Presentation: %s\n", pptxPath)
	}
	if jsonPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Deck JSON: %s\n", jsonPath)
	}
	return nil
}

// inputFromFile reads an outline file; layouts come from catalogPath or the configured template
func inputFromFile(outlinePath string, cfg config.Config, catalogPath string) (*assemblyInput, error) {
	data, err := os.ReadFile(outlinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read outline: %w", err)
	}
	o, err := outline.Parse(data)
	if err != nil {
		return nil, err
	}

	if catalogPath == "" {
		catalogPath = cfg.Template
	}
	catalog, err := pipeline.LoadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}

	output := cfg.Output
	if output == "" {
		output = filepath.Join(filepath.Dir(outlinePath), "deck.pptx")
	}
	return &assemblyInput{
		Outline:      o,
		Catalog:      catalog,
		TemplatePath: cfg.Template,
		OutputPath:   output,
		ImageDir:     filepath.Dir(outlinePath),
	}, nil
}

// inputFromRun reuses the outline and catalog of a stored run. The run's template is used
// unless one was given on the command line; a new template brings its own catalog.
func inputFromRun(ctx context.Context, store runStore, runID uuid.UUID, cfg config.Config, catalogPath string, templateChanged bool) (*assemblyInput, error) {
	stored, err := loadStoredRun(ctx, store, runID)
	if err != nil {
		return nil, err
	}

	templatePath := stored.Run.Template
	catalog := stored.Catalog
	if templateChanged {
		templatePath = cfg.Template
		if catalog, err = pipeline.LoadCatalog(templatePath); err != nil {
			return nil, err
		}
	}
	if catalogPath != "" {
		if catalog, err = pipeline.LoadCatalog(catalogPath); err != nil {
			return nil, err
		}
	}

	output := cfg.Output
	if output == "" {
		output = "deck.pptx"
	}
	return &assemblyInput{
		Outline:      stored.Outline,
		Catalog:      catalog,
		TemplatePath: templatePath,
		OutputPath:   output,
		ImageDir:     pipeline.ImageDir(stored.Run.Source),
	}, nil
}

func printCandidates(printer *observability.Printer, o *types.Outline, catalog *types.LayoutCatalog, opts assembly.Options) {
	matcher := matching.NewMatcher(opts.Matching)
	for i, slide := range o.Slides {
		printer.PrintCandidates(i, matcher.Explain(slide, catalog.Layouts))
	}
}
