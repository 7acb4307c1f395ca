// Package generation asks the language model for a slide outline of an extracted document.
package generation

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/deck-builder/internal/llm"
	"github.com/jonathan/deck-builder/internal/outline"
	"github.com/jonathan/deck-builder/internal/prompts"
	"github.com/jonathan/deck-builder/internal/schemas"
	"github.com/jonathan/deck-builder/internal/types"
)

const promptFile = "outline.json"

// DefaultRepairAttempts is how many times a schema-invalid reply is sent back for correction
const DefaultRepairAttempts = 1

// Generator drafts outlines through an llm.Client
type Generator struct {
	client         llm.Client
	logger         *zap.Logger
	repairAttempts int
}

// Option customizes a Generator
type Option func(*Generator)

// WithLogger sets the logger used for progress messages
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRepairAttempts sets how many correction rounds are allowed; zero disables them
func WithRepairAttempts(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.repairAttempts = n
		}
	}
}

// New creates a Generator
func New(client llm.Client, opts ...Option) *Generator {
	g := &Generator{
		client:         client,
		logger:         zap.NewNop(),
		repairAttempts: DefaultRepairAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the raw outline the model proposes for doc. Replies that fail the
// outline schema are returned to the model with the validation errors.
func (g *Generator) Generate(ctx context.Context, doc *types.Document) (*types.RawOutline, error) {
	if doc == nil {
		return nil, &Error{Message: "document is required"}
	}
	if g.client == nil {
		return nil, &Error{Message: "LLM client is required"}
	}

	system, err := prompts.Get(promptFile, "system")
	if err != nil {
		return nil, &Error{Message: "failed to load prompt", Cause: err}
	}
	prompt, err := BuildPrompt(doc)
	if err != nil {
		return nil, &Error{Message: "failed to build prompt", Cause: err}
	}

	g.logger.Info("requesting outline",
		zap.String("model", g.client.Model()),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("prompt_chars", len(prompt)))

	reply, err := g.client.GenerateJSON(ctx, system, prompt)
	if err != nil {
		return nil, &Error{Message: "model call failed", Cause: err}
	}

	for attempt := 0; ; attempt++ {
		raw, err := outline.ParseRaw([]byte(reply))
		if err == nil {
			g.logger.Info("outline received", zap.Int("slides", len(raw.Slides)))
			return raw, nil
		}

		var validationErr *schemas.ValidationError
		if attempt >= g.repairAttempts || !errors.As(err, &validationErr) {
			return nil, &Error{Message: "model reply is not a valid outline", Cause: err}
		}

		g.logger.Warn("outline reply failed schema validation, asking for a correction",
			zap.Int("attempt", attempt+1),
			zap.Int("errors", len(validationErr.Errors)))

		repair, err := prompts.Render(promptFile, "repair-outline", map[string]string{
			"Errors":  describe(validationErr),
			"Outline": reply,
		})
		if err != nil {
			return nil, &Error{Message: "failed to load prompt", Cause: err}
		}
		reply, err = g.client.GenerateJSON(ctx, system, repair)
		if err != nil {
			return nil, &Error{Message: "model call failed", Cause: err}
		}
	}
}

// BuildPrompt renders the outline request for doc. Sections are written as markdown
// headings so the model sees the document structure.
func BuildPrompt(doc *types.Document) (string, error) {
	return prompts.Render(promptFile, "generate-outline", map[string]string{
		"Title":   doc.Title,
		"Content": RenderContent(doc),
	})
}

// RenderContent writes the document sections as markdown text
func RenderContent(doc *types.Document) string {
	var sb strings.Builder
	for _, section := range doc.Sections {
		if section.Heading != "" {
			level := section.Level
			if level < 1 {
				level = 1
			}
			sb.WriteString(strings.Repeat("#", level))
			sb.WriteString(" ")
			sb.WriteString(section.Heading)
			sb.WriteString("\n")
		}
		for _, para := range section.Paragraphs {
			sb.WriteString(para)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func describe(err *schemas.ValidationError) string {
	parts := make([]string, 0, len(err.Errors))
	for _, fe := range err.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	if len(parts) == 0 {
		return err.Error()
	}
	return strings.Join(parts, "; ")
}
