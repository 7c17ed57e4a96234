package db

import (
	"context"
	"fmt"

	"github.com/tordrt/tblsrel/internal/schema"
)

// Extractor reads the tables, columns and indexes of a database
type Extractor interface {
	Tables(ctx context.Context) ([]schema.Table, error)
}

// indexPart is one key part of an index as read from a catalog.
// Parts of the same index arrive together, in key-part order.
type indexPart struct {
	index      string
	column     string
	isUnique   bool
	expression bool // key part is an expression, not a column
}

// buildIndexes groups key parts into indexes and resolves their columns
// against the table's columns. Indexes containing an expression part are
// left out since they cannot be matched column by column.
func buildIndexes(table *schema.Table, parts []indexPart) ([]schema.Index, error) {
	hasExpression := make(map[string]bool)
	for _, part := range parts {
		if part.expression {
			hasExpression[part.index] = true
		}
	}

	var indexes []schema.Index
	position := make(map[string]int)
	for _, part := range parts {
		if hasExpression[part.index] {
			continue
		}

		col, ok := table.Column(part.column)
		if !ok {
			return nil, fmt.Errorf("index %s references unknown column %s", part.index, part.column)
		}

		i, ok := position[part.index]
		if !ok {
			indexes = append(indexes, schema.Index{Name: part.index, IsUnique: part.isUnique})
			i = len(indexes) - 1
			position[part.index] = i
		}
		indexes[i].Columns = append(indexes[i].Columns, col)
	}

	return indexes, nil
}
