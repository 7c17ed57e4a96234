package schema

// Table represents a database table as read from a live snapshot
type Table struct {
	Name     string
	Database string
	Columns  []Column
	Indexes  []Index
}

// Key returns the table identity as "database.name"
func (t Table) Key() string {
	if t.Database == "" {
		return t.Name
	}
	return t.Database + "." + t.Name
}

// Column looks up a column by name
func (t Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Column represents a table column
type Column struct {
	Name            string
	DataType        string // engine-native type label, compared literally
	IsAutoIncrement bool
}

// Index represents a database index.
// Columns are in key-part order; matching against them is positional.
type Index struct {
	Name     string
	Columns  []Column
	IsUnique bool
}

// Relation is an inferred link from Columns of Table to the indexed
// ParentColumns of ParentTable. Columns[i] matched ParentColumns[i].
type Relation struct {
	Table         Table
	Columns       []Column
	ParentTable   Table
	ParentColumns []Column
}

// ColumnNames returns the child column names in match order
func (r Relation) ColumnNames() []string {
	return columnNames(r.Columns)
}

// ParentColumnNames returns the parent column names in index order
func (r Relation) ParentColumnNames() []string {
	return columnNames(r.ParentColumns)
}

func columnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names
}
