package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/tblsrel/internal/schema"
)

const (
	sqliteDatabase  = "main"
	primaryKeyIndex = "PRIMARY"
)

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// Tables extracts every user table of the database
func (e *SQLiteExtractor) Tables(ctx context.Context) ([]schema.Table, error) {
	var tables []schema.Table

	tableNames, err := e.getTableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		tables = append(tables, *table)
	}

	return tables, nil
}

// getTableNames returns the user tables of the database
func (e *SQLiteExtractor) getTableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// extractTable extracts all information for a single table
func (e *SQLiteExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName, Database: sqliteDatabase}

	columns, pk, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	indexes, err := e.extractIndexes(ctx, table, pk)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.Indexes = indexes

	return table, nil
}

// extractColumns extracts column information for a table and the primary
// key column names in key order
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	type pkColumn struct {
		name  string
		order int
	}

	var columns []schema.Column
	var pkColumns []pkColumn

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		columns = append(columns, schema.Column{Name: name, DataType: colType})
		if pk > 0 {
			pkColumns = append(pkColumns, pkColumn{name: name, order: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(pkColumns, func(i, j int) bool {
		return pkColumns[i].order < pkColumns[j].order
	})
	pk := make([]string, len(pkColumns))
	for i, c := range pkColumns {
		pk[i] = c.name
	}

	// A lone INTEGER PRIMARY KEY aliases the rowid and is assigned automatically.
	if len(pk) == 1 {
		for i := range columns {
			if columns[i].Name == pk[0] && strings.EqualFold(columns[i].DataType, "integer") {
				columns[i].IsAutoIncrement = true
			}
		}
	}

	return columns, pk, nil
}

// extractIndexes extracts index information. The primary key is reported
// first under the name PRIMARY, whether SQLite backs it with an index or
// with the rowid.
func (e *SQLiteExtractor) extractIndexes(ctx context.Context, table *schema.Table, pk []string) ([]schema.Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(table.Name))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	type indexEntry struct {
		name   string
		unique bool
		origin string
	}

	var entries []indexEntry
	for rows.Next() {
		var seq int
		var entry indexEntry
		var unique, partial int

		if err := rows.Scan(&seq, &entry.name, &unique, &entry.origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		entry.unique = unique == 1
		entries = append(entries, entry)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var primaryParts, otherParts []indexPart
	for _, entry := range entries {
		name := entry.name
		if entry.origin == "pk" {
			name = primaryKeyIndex
		}

		parts, err := e.indexParts(ctx, entry.name, name, entry.unique)
		if err != nil {
			return nil, err
		}

		if entry.origin == "pk" {
			primaryParts = parts
		} else {
			otherParts = append(otherParts, parts...)
		}
	}

	if primaryParts == nil {
		for _, col := range pk {
			primaryParts = append(primaryParts, indexPart{index: primaryKeyIndex, column: col, isUnique: true})
		}
	}

	return buildIndexes(table, append(primaryParts, otherParts...))
}

// indexParts reads the key parts of one index in key order
func (e *SQLiteExtractor) indexParts(ctx context.Context, indexName, reportAs string, unique bool) ([]indexPart, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(indexName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []indexPart
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}

		parts = append(parts, indexPart{
			index:      reportAs,
			column:     colName.String,
			isUnique:   unique,
			expression: !colName.Valid,
		})
	}

	return parts, rows.Err()
}

// quoteIdent quotes an identifier for use in a PRAGMA
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
