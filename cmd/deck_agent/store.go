package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/jonathan/deck-builder/internal/db"
	"github.com/jonathan/deck-builder/internal/observability"
	"github.com/jonathan/deck-builder/internal/types"
)

// runStore is the read side of the artifact database used by assemble and runs
type runStore interface {
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	ListArtifacts(ctx context.Context, runID uuid.UUID) ([]db.Artifact, error)
	GetDocumentByRunID(ctx context.Context, runID uuid.UUID) (*types.Document, error)
	GetRawOutlineByRunID(ctx context.Context, runID uuid.UUID) (*types.RawOutline, error)
	GetOutlineByRunID(ctx context.Context, runID uuid.UUID) (*types.Outline, error)
	GetCatalogByRunID(ctx context.Context, runID uuid.UUID) (*types.LayoutCatalog, error)
	GetDeckByRunID(ctx context.Context, runID uuid.UUID) (*types.Deck, error)
}

// openStore connects to the artifact database
func openStore(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required (use --db-url flag or set DATABASE_URL environment variable)")
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

func parseRunID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid run ID %q: %w", s, err)
	}
	return id, nil
}

// storedRun is what assemble needs from an earlier convert run
type storedRun struct {
	Run     *db.Run
	Outline *types.Outline
	Catalog *types.LayoutCatalog
}

// loadStoredRun fetches the run record with its outline and catalog artifacts
func loadStoredRun(ctx context.Context, store runStore, runID uuid.UUID) (*storedRun, error) {
	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}

	o, err := store.GetOutlineByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("run %s has no %s artifact (status %s)", runID, db.StepOutline, run.Status)
	}

	catalog, err := store.GetCatalogByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, fmt.Errorf("run %s has no %s artifact (status %s)", runID, db.StepCatalog, run.Status)
	}

	return &storedRun{Run: run, Outline: o, Catalog: catalog}, nil
}

// showArtifact prints one stored artifact: summaries for the typed steps, JSON for the raw outline
func showArtifact(ctx context.Context, store runStore, runID uuid.UUID, step string, out io.Writer) error {
	printer := observability.NewPrinter(out)
	missing := fmt.Errorf("run %s has no %s artifact", runID, step)

	switch step {
	case db.StepDocument:
		doc, err := store.GetDocumentByRunID(ctx, runID)
		if err != nil {
			return err
		}
		if doc == nil {
			return missing
		}
		printer.PrintDocument(doc)
	case db.StepRawOutline:
		raw, err := store.GetRawOutlineByRunID(ctx, runID)
		if err != nil {
			return err
		}
		if raw == nil {
			return missing
		}
		data, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal outline: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case db.StepOutline:
		o, err := store.GetOutlineByRunID(ctx, runID)
		if err != nil {
			return err
		}
		if o == nil {
			return missing
		}
		printer.PrintOutline(o)
	case db.StepCatalog:
		catalog, err := store.GetCatalogByRunID(ctx, runID)
		if err != nil {
			return err
		}
		if catalog == nil {
			return missing
		}
		printer.PrintCatalog(catalog)
	case db.StepDeck:
		deck, err := store.GetDeckByRunID(ctx, runID)
		if err != nil {
			return err
		}
		if deck == nil {
			return missing
		}
		printer.PrintDeck(deck)
		printer.PrintWarnings(deck.Warnings)
	default:
		return fmt.Errorf("unknown artifact %q (use %s, %s, %s, %s or %s)",
			step, db.StepDocument, db.StepRawOutline, db.StepOutline, db.StepCatalog, db.StepDeck)
	}
	return nil
}
