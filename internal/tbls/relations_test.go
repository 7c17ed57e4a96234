package tbls

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/tordrt/tblsrel/internal/schema"
)

func rel(child string, cols []string, parent string, parentCols []string) schema.Relation {
	toColumns := func(names []string) []schema.Column {
		out := make([]schema.Column, len(names))
		for i, n := range names {
			out[i] = schema.Column{Name: n, DataType: "int"}
		}
		return out
	}
	return schema.Relation{
		Table:         schema.Table{Name: child, Database: "app"},
		Columns:       toColumns(cols),
		ParentTable:   schema.Table{Name: parent, Database: "app"},
		ParentColumns: toColumns(parentCols),
	}
}

func TestDef(t *testing.T) {
	assert.Equal(t, "posts->users", Def(rel("posts", []string{"user_id"}, "users", []string{"id"})))
	assert.Equal(t, "users->users", Def(rel("users", nil, "users", nil)))
}

func TestFromRelations(t *testing.T) {
	detected := []schema.Relation{
		rel("posts", []string{"user_id"}, "users", []string{"id"}),
		rel("comments", []string{"post_id"}, "posts", []string{"id"}),
		rel("posts", []string{"editor_user_id"}, "users", []string{"id"}),
		rel("comments", []string{"user_id"}, "users", []string{"id"}),
	}

	got := FromRelations(detected)

	want := []AdditionalRelation{
		{Table: "comments", Columns: []string{"post_id"}, ParentTable: "posts", ParentColumns: []string{"id"}, Def: "comments->posts"},
		{Table: "comments", Columns: []string{"user_id"}, ParentTable: "users", ParentColumns: []string{"id"}, Def: "comments->users"},
		{Table: "posts", Columns: []string{"user_id"}, ParentTable: "users", ParentColumns: []string{"id"}, Def: "posts->users"},
		{Table: "posts", Columns: []string{"editor_user_id"}, ParentTable: "users", ParentColumns: []string{"id"}, Def: "posts->users"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromRelations() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRelationsEmpty(t *testing.T) {
	got := FromRelations(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
