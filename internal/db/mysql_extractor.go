package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/tblsrel/internal/schema"
)

// MySQLExtractor handles schema extraction from MySQL
type MySQLExtractor struct {
	client    *MySQLClient
	databases []string
}

// NewMySQLExtractor creates a new MySQL schema extractor reading every
// table of the given databases
func NewMySQLExtractor(client *MySQLClient, databases []string) *MySQLExtractor {
	return &MySQLExtractor{
		client:    client,
		databases: databases,
	}
}

// Tables extracts every base table of the configured databases
func (e *MySQLExtractor) Tables(ctx context.Context) ([]schema.Table, error) {
	var tables []schema.Table

	for _, database := range e.databases {
		tableNames, err := e.getTableNames(ctx, database)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names of %s: %w", database, err)
		}

		for _, tableName := range tableNames {
			table, err := e.extractTable(ctx, database, tableName)
			if err != nil {
				return nil, fmt.Errorf("failed to extract table %s.%s: %w", database, tableName, err)
			}
			tables = append(tables, *table)
		}
	}

	return tables, nil
}

// getTableNames returns the base tables of a database
func (e *MySQLExtractor) getTableNames(ctx context.Context, database string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, database)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// extractTable extracts all information for a single table
func (e *MySQLExtractor) extractTable(ctx context.Context, database, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName, Database: database}

	columns, err := e.extractColumns(ctx, database, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	indexes, err := e.extractIndexes(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.Indexes = indexes

	return table, nil
}

// extractColumns extracts column information for a table.
// DataType is the full column type as DESCRIBE shows it, e.g. "int unsigned".
func (e *MySQLExtractor) extractColumns(ctx context.Context, database, tableName string) ([]schema.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.column_type,
			c.extra
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, database, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var extra sql.NullString

		if err := rows.Scan(&col.Name, &col.DataType, &extra); err != nil {
			return nil, err
		}

		col.IsAutoIncrement = strings.Contains(strings.ToLower(extra.String), "auto_increment")
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractIndexes extracts every index, PRIMARY first, columns in key-part order
func (e *MySQLExtractor) extractIndexes(ctx context.Context, table *schema.Table) ([]schema.Index, error) {
	query := `
		SELECT
			s.index_name,
			s.non_unique = 0 AS is_unique,
			s.column_name
		FROM information_schema.statistics s
		WHERE s.table_schema = ?
			AND s.table_name = ?
		ORDER BY s.index_name <> 'PRIMARY', s.index_name, s.seq_in_index
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, table.Database, table.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []indexPart
	for rows.Next() {
		var part indexPart
		var isUnique int
		var columnName sql.NullString

		if err := rows.Scan(&part.index, &isUnique, &columnName); err != nil {
			return nil, err
		}

		part.isUnique = isUnique == 1
		part.column = columnName.String
		// Functional key parts have no column name.
		part.expression = !columnName.Valid
		parts = append(parts, part)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildIndexes(table, parts)
}
