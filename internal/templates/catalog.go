package templates

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/deck-builder/internal/schemas"
	"github.com/jonathan/deck-builder/internal/types"
)

// Load returns the catalog for a template (.pptx, .potx) or a catalog file (.yaml, .yml, .json)
func Load(path string) (*types.LayoutCatalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pptx", ".potx":
		return AnalyzePPTX(path)
	case ".yaml", ".yml", ".json":
		return LoadCatalog(path)
	default:
		return nil, &AnalysisError{Path: path, Message: "expected a .pptx template or a .yaml/.json catalog"}
	}
}

// LoadCatalog reads a catalog file. YAML files are checked against the same schema as
// JSON ones, then the decoded catalog is validated.
func LoadCatalog(path string) (*types.LayoutCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AnalysisError{Path: path, Message: "failed to read catalog", Cause: err}
	}

	catalog, err := ParseCatalog(data, strings.ToLower(filepath.Ext(path)) == ".json")
	if err != nil {
		return nil, &AnalysisError{Path: path, Message: "invalid catalog", Cause: err}
	}
	if catalog.Source == "" {
		catalog.Source = path
	}
	return catalog, nil
}

// ParseCatalog decodes catalog content. isJSON selects the decoder; YAML is the default.
func ParseCatalog(data []byte, isJSON bool) (*types.LayoutCatalog, error) {
	var catalog types.LayoutCatalog
	jsonContent := data
	if isJSON {
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	} else {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		var err error
		if jsonContent, err = json.Marshal(generic); err != nil {
			return nil, fmt.Errorf("catalog YAML cannot be represented as JSON: %w", err)
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	}

	if err := schemas.ValidateEmbedded(schemas.CatalogSchema, string(jsonContent)); err != nil {
		return nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	for i := range catalog.Layouts {
		if catalog.Layouts[i].Placeholders == nil {
			catalog.Layouts[i].Placeholders = []types.PlaceholderSlot{}
		}
	}
	return &catalog, nil
}

// WriteCatalog encodes a catalog as "yaml" or "json"
func WriteCatalog(w io.Writer, catalog *types.LayoutCatalog, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(catalog); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	default:
		return fmt.Errorf("unknown catalog format %q", format)
	}
}
