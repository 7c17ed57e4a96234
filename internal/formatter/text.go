package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tblsrel/internal/tbls"
)

// TextFormatter formats relations as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes one block per child table
func (f *TextFormatter) Format(relations []tbls.AdditionalRelation) error {
	if len(relations) == 0 {
		_, err := fmt.Fprintln(f.writer, "no relations detected")
		return err
	}

	for i, rels := range group(relations) {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		_, _ = fmt.Fprintf(f.writer, "TABLE %s\n", rels[0].Table)
		for _, rel := range rels {
			if _, err := fmt.Fprintf(f.writer, "  (%s) → %s (%s)\n",
				strings.Join(rel.Columns, ", "),
				rel.ParentTable,
				strings.Join(rel.ParentColumns, ", ")); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(f.writer, "\n%d relations\n", len(relations))
	return err
}
