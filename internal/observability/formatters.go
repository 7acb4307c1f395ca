// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/deck-builder/internal/db"
	"github.com/jonathan/deck-builder/internal/matching"
	"github.com/jonathan/deck-builder/internal/templates"
	"github.com/jonathan/deck-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintDocument outputs a summary of the extracted document.
func (p *Printer) PrintDocument(doc *types.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", doc.Title))
	sb.WriteString(fmt.Sprintf("Format:   %s\n", doc.Format))
	sb.WriteString(fmt.Sprintf("Sections: %d  Words: %d\n", doc.Metadata.SectionCount, doc.Metadata.WordCount))

	if len(doc.Sections) > 0 {
		sb.WriteString("\n")
		count := min(len(doc.Sections), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := doc.Sections[i]
			heading := s.Heading
			if heading == "" {
				heading = "(untitled)"
			}
			sb.WriteString(fmt.Sprintf("%s%s (%d paragraphs)\n", strings.Repeat("  ", max(s.Level-1, 0)), heading, len(s.Paragraphs)))
		}
		if len(doc.Sections) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more sections\n", len(doc.Sections)-maxItemsToShow))
		}
	}

	p.printBox("EXTRACTED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutline outputs the validated outline with each slide's content hint.
func (p *Printer) PrintOutline(o *types.Outline) {
	if o == nil || len(o.Slides) == 0 {
		return
	}

	var sb strings.Builder
	if o.Title != "" {
		sb.WriteString(fmt.Sprintf("Title: %s\n", o.Title))
	}
	sb.WriteString(fmt.Sprintf("Slides: %d\n\n", len(o.Slides)))

	for i, slide := range o.Slides {
		sb.WriteString(fmt.Sprintf("%2d. %s [%s]\n", i, slide.Title, slide.ContentHint))
		if len(slide.Bullets) > 0 {
			sb.WriteString(fmt.Sprintf("    %d bullets", len(slide.Bullets)))
			if slide.Notes != "" {
				sb.WriteString(", notes")
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("SLIDE OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCatalog outputs the template layouts and their placeholder roles.
func (p *Printer) PrintCatalog(catalog *types.LayoutCatalog) {
	if catalog == nil {
		return
	}

	var sb strings.Builder
	if catalog.Theme != "" {
		sb.WriteString(fmt.Sprintf("Theme: %s\n", catalog.Theme))
	}
	sb.WriteString(fmt.Sprintf("Layouts: %d\n\n", len(catalog.Layouts)))

	for i, entry := range catalog.Layouts {
		roles := make([]string, 0, len(entry.Placeholders))
		for _, slot := range entry.Placeholders {
			if slot.Role == types.RoleOther {
				continue
			}
			roles = append(roles, fmt.Sprintf("%s#%d", slot.Role, slot.Index))
		}
		sb.WriteString(fmt.Sprintf("%2d. %s (%s)\n", i, entry.Name, templates.ClassifyLayoutName(entry.Name)))
		if len(roles) > 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(roles, " ")))
		}
	}

	p.printBox("LAYOUT CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs how every layout scored for one slide.
func (p *Printer) PrintCandidates(slideIndex int, candidates []matching.Candidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	for _, c := range candidates {
		mark := " "
		if !c.Usable {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %-28s %+.1f (%d/%d required)\n", mark, c.Name, c.Score, c.Present, c.Present+c.Missing))
	}

	p.printBox(fmt.Sprintf("LAYOUT SCORES (slide %d)", slideIndex), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDeck outputs the chosen layout per slide and how often each layout was used.
func (p *Printer) PrintDeck(deck *types.Deck) {
	if deck == nil || len(deck.Slides) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(deck.Slides), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		s := deck.Slides[i]
		marker := ""
		if s.Truncated {
			marker = " (truncated)"
		}
		sb.WriteString(fmt.Sprintf("%2d. %s%s\n", s.Index, s.Layout.Name, marker))
	}
	if len(deck.Slides) > count {
		sb.WriteString(fmt.Sprintf("... and %d more slides\n", len(deck.Slides)-count))
	}

	if len(deck.LayoutUsage) > 0 {
		sb.WriteString("\nLayout usage:\n")
		for _, u := range deck.LayoutUsage {
			sb.WriteString(fmt.Sprintf("  • %s: %d\n", u.Layout, u.Slides))
		}
	}

	p.printBox("ASSEMBLED DECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs the non-fatal conditions recorded while assembling.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []types.Warning) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ NO WARNINGS", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))

	for i, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ slide %d: %s\n", w.SlideIndex, w.Kind))
		sb.WriteString(fmt.Sprintf("  %s\n", w.Message))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("ASSEMBLY WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRuns outputs stored runs, newest first.
func (p *Printer) PrintRuns(runs []db.Run) {
	if len(runs) == 0 {
		p.printBox("STORED RUNS", "No runs found")
		return
	}

	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("%s  %s\n", run.ID, run.Status))
		sb.WriteString(fmt.Sprintf("  %s  %s\n", run.CreatedAt.Format("2006-01-02 15:04"), run.Source))
	}

	p.printBox(fmt.Sprintf("STORED RUNS (%d)", len(runs)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRun outputs one run with the steps it stored.
func (p *Printer) PrintRun(run *db.Run, artifacts []db.Artifact) {
	if run == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID: %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Status: %s\n", run.Status))
	sb.WriteString(fmt.Sprintf("Source: %s\n", run.Source))
	if run.Template != "" {
		sb.WriteString(fmt.Sprintf("Template: %s\n", run.Template))
	}
	if run.Error != "" {
		sb.WriteString(fmt.Sprintf("Error: %s\n", run.Error))
	}
	sb.WriteString(fmt.Sprintf("\nArtifacts: %d\n", len(artifacts)))
	for _, a := range artifacts {
		sb.WriteString(fmt.Sprintf("  • %s [%s]\n", a.Step, a.Category))
	}

	p.printBox("STORED RUN", strings.TrimSuffix(sb.String(), "\n"))
}

// FormatWarning renders a warning as a single CLI line
func FormatWarning(w types.Warning) string {
	return fmt.Sprintf("Warning: slide %d: %s (%s)", w.SlideIndex, w.Message, w.Kind)
}
