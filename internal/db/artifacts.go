package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/deck-builder/internal/types"
)

// getJSON loads a JSON artifact into T; a missing artifact yields nil
func getJSON[T any](ctx context.Context, db *DB, runID uuid.UUID, step string) (*T, error) {
	content, err := db.GetArtifact(ctx, runID, step)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var v T
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", step, err)
	}
	return &v, nil
}

// GetDocumentByRunID loads the extracted document from database for a run
func (db *DB) GetDocumentByRunID(ctx context.Context, runID uuid.UUID) (*types.Document, error) {
	return getJSON[types.Document](ctx, db, runID, StepDocument)
}

// GetOutlineByRunID loads the validated outline from database for a run
func (db *DB) GetOutlineByRunID(ctx context.Context, runID uuid.UUID) (*types.Outline, error) {
	return getJSON[types.Outline](ctx, db, runID, StepOutline)
}

// GetCatalogByRunID loads the layout catalog from database for a run
func (db *DB) GetCatalogByRunID(ctx context.Context, runID uuid.UUID) (*types.LayoutCatalog, error) {
	return getJSON[types.LayoutCatalog](ctx, db, runID, StepCatalog)
}

// GetDeckByRunID loads the assembled deck from database for a run
func (db *DB) GetDeckByRunID(ctx context.Context, runID uuid.UUID) (*types.Deck, error) {
	return getJSON[types.Deck](ctx, db, runID, StepDeck)
}

// GetRawOutlineByRunID loads the outline as the model returned it for a run
func (db *DB) GetRawOutlineByRunID(ctx context.Context, runID uuid.UUID) (*types.RawOutline, error) {
	return getJSON[types.RawOutline](ctx, db, runID, StepRawOutline)
}
