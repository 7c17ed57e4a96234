// Package formatter renders detected relations for people to read before
// they are written into a tbls document.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/tblsrel/internal/tbls"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Formatter writes relations in a human-readable layout
type Formatter interface {
	Format(relations []tbls.AdditionalRelation) error
}

// New returns the formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be '%s' or '%s')", format, FormatText, FormatMarkdown)
	}
}

// group splits relations, already sorted by child table, into runs per table
func group(relations []tbls.AdditionalRelation) [][]tbls.AdditionalRelation {
	var groups [][]tbls.AdditionalRelation
	for i, rel := range relations {
		if i == 0 || rel.Table != relations[i-1].Table {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], rel)
	}
	return groups
}
