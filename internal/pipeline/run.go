// Package pipeline provides the high-level orchestration for turning a document into a deck.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/deck-builder/internal/assembly"
	"github.com/jonathan/deck-builder/internal/db"
	"github.com/jonathan/deck-builder/internal/generation"
	"github.com/jonathan/deck-builder/internal/llm"
	"github.com/jonathan/deck-builder/internal/observability"
	"github.com/jonathan/deck-builder/internal/outline"
	"github.com/jonathan/deck-builder/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for running the pipeline
type Options struct {
	// InputPath is a document path or an http(s) URL
	InputPath string
	// TemplatePath is a .pptx/.potx template, a catalog file, or empty for the built-in catalog
	TemplatePath string
	// OutputPath is where the .pptx is written
	OutputPath string
	// JSONPath additionally writes the deck as JSON when set
	JSONPath string

	// Client overrides the Gemini client built from APIKey and LLM
	Client llm.Client
	APIKey string
	LLM    *llm.Config
	// RequestTimeout bounds outline generation; zero means no limit
	RequestTimeout time.Duration

	Assembly    assembly.Options
	UseBrowser  bool
	Verbose     bool
	DatabaseURL string

	Logger     *zap.Logger
	Out        io.Writer // verbose output, stdout when nil
	OnProgress ProgressCallback
}

// Result holds everything a run produced
type Result struct {
	RunID      uuid.UUID
	Document   *types.Document
	RawOutline *types.RawOutline
	Outline    *types.Outline
	Catalog    *types.LayoutCatalog
	Deck       *types.Deck
	OutputPath string
	JSONPath   string
}

// documentBranch holds the outputs of extraction and outline generation
type documentBranch struct {
	document   *types.Document
	rawOutline *types.RawOutline
	outline    *types.Outline
}

// runner carries the per-run state shared by the steps
type runner struct {
	opts     Options
	runID    uuid.UUID
	logger   *zap.Logger
	database *db.DB
	mu       sync.Mutex // serializes progress callbacks from the two branches
}

// emitProgress calls the progress callback if configured
func (r *runner) emitProgress(step, message string, content any) {
	r.logger.Info(message, zap.String("step", step))
	if r.opts.OnProgress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: db.CategoryFor(step),
		Message:  message,
		RunID:    r.runID.String(),
		Content:  content,
	})
}

// save stores an artifact when a database is connected; failures only warn
func (r *runner) save(ctx context.Context, step string, content any) {
	if r.database == nil {
		return
	}
	if err := r.database.SaveArtifact(ctx, r.runID, step, content); err != nil {
		r.logger.Warn("failed to save artifact", zap.String("step", step), zap.Error(err))
	}
}

// Run orchestrates the full conversion: the document branch (extract, generate,
// validate) and the template branch run in parallel, then the deck is assembled and written.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.InputPath == "" {
		return nil, fmt.Errorf("input is required")
	}
	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputPath(opts.InputPath)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Assembly == (assembly.Options{}) {
		opts.Assembly = assembly.DefaultOptions()
	}

	r := &runner{opts: opts, runID: uuid.New()}
	r.logger = opts.Logger.With(zap.String("run_id", r.runID.String()))

	client := opts.Client
	if client == nil {
		gemini, err := llm.NewGeminiClient(ctx, opts.LLM, opts.APIKey, r.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = gemini.Close() }()
		client = gemini
	}

	if opts.DatabaseURL != "" {
		r.database = connectDatabase(ctx, opts.DatabaseURL, r.logger)
		if r.database != nil {
			defer r.database.Close()
			if err := r.database.CreateRun(ctx, r.runID, opts.InputPath, opts.TemplatePath); err != nil {
				r.logger.Warn("failed to create database run", zap.Error(err))
				r.database.Close()
				r.database = nil
			}
		}
	}

	result, err := r.run(ctx, client)
	if r.database != nil {
		status := db.StatusCompleted
		if err != nil {
			status = db.StatusFailed
		}
		if cerr := r.database.CompleteRun(ctx, r.runID, status, err); cerr != nil {
			r.logger.Warn("failed to complete database run", zap.Error(cerr))
		}
	}
	return result, err
}

func (r *runner) run(ctx context.Context, client llm.Client) (*Result, error) {
	opts := r.opts
	printer := observability.NewPrinter(opts.Out)

	g, gCtx := errgroup.WithContext(ctx)

	var docResult *documentBranch
	var catalog *types.LayoutCatalog

	// Document branch
	g.Go(func() error {
		result, err := r.runDocumentBranch(gCtx, client)
		if err != nil {
			return err
		}
		docResult = result
		return nil
	})

	// Template branch
	g.Go(func() error {
		c, err := LoadCatalog(opts.TemplatePath)
		if err != nil {
			return fmt.Errorf("template analysis failed: %w", err)
		}
		catalog = c
		r.emitProgress(db.StepCatalog, fmt.Sprintf("Loaded %d layouts", len(c.Layouts)), c)
		r.save(gCtx, db.StepCatalog, c)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Verbose {
		printer.PrintDocument(docResult.document)
		printer.PrintOutline(docResult.outline)
		printer.PrintCatalog(catalog)
	}

	deck, err := assembly.New(opts.Assembly).Assemble(docResult.outline, catalog)
	if err != nil {
		return nil, err
	}
	r.emitProgress(db.StepDeck, fmt.Sprintf("Assembled %d slides with %d warnings", len(deck.Slides), len(deck.Warnings)), deck)
	r.save(ctx, db.StepDeck, deck)

	if opts.Verbose {
		printer.PrintDeck(deck)
		printer.PrintWarnings(deck.Warnings)
	}

	result := &Result{
		RunID:      r.runID,
		Document:   docResult.document,
		RawOutline: docResult.rawOutline,
		Outline:    docResult.outline,
		Catalog:    catalog,
		Deck:       deck,
	}

	result.OutputPath, result.JSONPath, err = WriteDeck(deck, catalog, WriteOptions{
		TemplatePath: opts.TemplatePath,
		OutputPath:   opts.OutputPath,
		JSONPath:     opts.JSONPath,
		ImageDir:     ImageDir(opts.InputPath),
		Logger:       r.logger,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runDocumentBranch extracts the document, asks the model for an outline and validates it
func (r *runner) runDocumentBranch(ctx context.Context, client llm.Client) (*documentBranch, error) {
	doc, err := ExtractDocument(ctx, r.opts.InputPath, r.opts.UseBrowser, r.logger)
	if err != nil {
		return nil, err
	}
	r.emitProgress(db.StepDocument,
		fmt.Sprintf("Extracted %d sections (%d words)", doc.Metadata.SectionCount, doc.Metadata.WordCount), nil)
	r.save(ctx, db.StepDocument, doc)

	genCtx := ctx
	if r.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, r.opts.RequestTimeout)
		defer cancel()
	}
	raw, err := generation.New(client, generation.WithLogger(r.logger)).Generate(genCtx, doc)
	if err != nil {
		return nil, err
	}
	r.save(ctx, db.StepRawOutline, raw)

	o, err := outline.Build(raw)
	if err != nil {
		return nil, err
	}
	r.emitProgress(db.StepOutline, fmt.Sprintf("Outline has %d slides", len(o.Slides)), o)
	r.save(ctx, db.StepOutline, o)

	return &documentBranch{document: doc, rawOutline: raw, outline: o}, nil
}

func connectDatabase(ctx context.Context, databaseURL string, logger *zap.Logger) *db.DB {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		logger.Warn("failed to connect to database, continuing without persistence", zap.Error(err))
		return nil
	}
	if err := database.EnsureSchema(ctx); err != nil {
		logger.Warn("failed to prepare database schema, continuing without persistence", zap.Error(err))
		database.Close()
		return nil
	}
	logger.Debug("connected to database")
	return database
}

// IsURL reports whether input names a web page rather than a file
func IsURL(input string) bool {
	lower := strings.ToLower(input)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DefaultOutputPath derives the deck path from the input: report.docx becomes report.pptx.
// URLs produce deck.pptx.
func DefaultOutputPath(input string) string {
	if IsURL(input) {
		return "deck.pptx"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pptx"
}

// ImageDir is where relative image paths in an outline drafted from input are resolved
func ImageDir(input string) string {
	if IsURL(input) {
		return ""
	}
	return filepath.Dir(input)
}
