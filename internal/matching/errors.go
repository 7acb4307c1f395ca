// Package matching selects the template layout that best hosts each outline slide.
package matching

import (
	"fmt"
	"strings"

	"github.com/jonathan/deck-builder/internal/types"
)

// NoUsableLayoutError is returned when no catalog entry can host a slide's title
type NoUsableLayoutError struct {
	SlideIndex int
	Required   []types.PlaceholderRole
	Unmet      []types.PlaceholderRole
}

func (e *NoUsableLayoutError) Error() string {
	return fmt.Sprintf("no usable layout for slide %d: requires [%s], unmet [%s]",
		e.SlideIndex, joinRoles(e.Required), joinRoles(e.Unmet))
}

func joinRoles(roles []types.PlaceholderRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " ")
}
