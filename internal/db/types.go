package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a pipeline run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Source      string     `json:"source"`
	Template    string     `json:"template"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ArtifactStep constants for known artifact types
const (
	StepDocument   = "document"
	StepRawOutline = "raw_outline"
	StepOutline    = "outline"
	StepCatalog    = "catalog"
	StepDeck       = "deck"
)

// Artifact categories group steps by pipeline branch
const (
	CategoryIngestion  = "ingestion"
	CategoryGeneration = "generation"
	CategoryTemplate   = "template"
	CategoryAssembly   = "assembly"
)

// CategoryFor returns the category a step is stored under
func CategoryFor(step string) string {
	switch step {
	case StepDocument:
		return CategoryIngestion
	case StepRawOutline, StepOutline:
		return CategoryGeneration
	case StepCatalog:
		return CategoryTemplate
	default:
		return CategoryAssembly
	}
}

// Artifact represents an artifact record
type Artifact struct {
	ID       uuid.UUID `json:"id"`
	RunID    uuid.UUID `json:"run_id"`
	Step     string    `json:"step"`
	Category string    `json:"category"`
	Content  any       `json:"content,omitempty"`
}
