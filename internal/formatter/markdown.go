package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tblsrel/internal/tbls"
)

// MarkdownFormatter formats relations as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes a section per child table with one bullet per relation
func (f *MarkdownFormatter) Format(relations []tbls.AdditionalRelation) error {
	_, _ = fmt.Fprintln(f.writer, "# Detected Relations")
	_, _ = fmt.Fprintln(f.writer)

	if len(relations) == 0 {
		_, err := fmt.Fprintln(f.writer, "_No relations detected._")
		return err
	}

	for _, rels := range group(relations) {
		_, _ = fmt.Fprintf(f.writer, "## %s\n\n", rels[0].Table)
		for _, rel := range rels {
			_, _ = fmt.Fprintf(f.writer, "- %s → **%s** %s (`%s`)\n",
				formatColumns(rel.Columns),
				rel.ParentTable,
				formatColumns(rel.ParentColumns),
				rel.Def)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

func formatColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "`" + c + "`"
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}
