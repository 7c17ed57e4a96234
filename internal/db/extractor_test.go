package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/tblsrel/internal/schema"
)

func TestBuildIndexes(t *testing.T) {
	table := &schema.Table{
		Name: "order_item",
		Columns: []schema.Column{
			{Name: "order_id", DataType: "int"},
			{Name: "line", DataType: "int"},
			{Name: "sku", DataType: "varchar(32)"},
		},
	}

	parts := []indexPart{
		{index: "PRIMARY", column: "order_id", isUnique: true},
		{index: "PRIMARY", column: "line", isUnique: true},
		{index: "idx_lower_sku", expression: true},
		{index: "idx_sku_line", column: "sku"},
		{index: "idx_sku_line", column: "line"},
		{index: "idx_mixed", column: "sku"},
		{index: "idx_mixed", expression: true},
	}

	got, err := buildIndexes(table, parts)
	require.NoError(t, err)

	want := []schema.Index{
		{
			Name:     "PRIMARY",
			Columns:  []schema.Column{table.Columns[0], table.Columns[1]},
			IsUnique: true,
		},
		{
			Name:    "idx_sku_line",
			Columns: []schema.Column{table.Columns[2], table.Columns[1]},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buildIndexes() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIndexesUnknownColumn(t *testing.T) {
	table := &schema.Table{Name: "user", Columns: []schema.Column{{Name: "id", DataType: "int"}}}

	_, err := buildIndexes(table, []indexPart{{index: "idx_email", column: "email"}})
	assert.EqualError(t, err, "index idx_email references unknown column email")
}

func TestBuildIndexesEmpty(t *testing.T) {
	got, err := buildIndexes(&schema.Table{Name: "log"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
