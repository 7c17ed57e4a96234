package tbls

import (
	"sort"

	"github.com/tordrt/tblsrel/internal/schema"
)

// Def returns the relation definition string "child->parent"
func Def(r schema.Relation) string {
	return r.Table.Name + "->" + r.ParentTable.Name
}

// FromRelations maps detected relations to document entries, sorted by
// child table name. Entries for the same child table keep detection order.
func FromRelations(relations []schema.Relation) []AdditionalRelation {
	out := make([]AdditionalRelation, len(relations))
	for i, r := range relations {
		out[i] = AdditionalRelation{
			Table:         r.Table.Name,
			Columns:       r.ColumnNames(),
			ParentTable:   r.ParentTable.Name,
			ParentColumns: r.ParentColumnNames(),
			Def:           Def(r),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Table < out[j].Table
	})
	return out
}
