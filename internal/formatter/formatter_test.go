package formatter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/tblsrel/internal/tbls"
)

var relations = []tbls.AdditionalRelation{
	{Table: "comments", Columns: []string{"post_id"}, ParentTable: "posts", ParentColumns: []string{"id"}, Def: "comments->posts"},
	{Table: "order_items", Columns: []string{"order_shop_id", "order_id"}, ParentTable: "orders", ParentColumns: []string{"shop_id", "id"}, Def: "order_items->orders"},
	{Table: "order_items", Columns: []string{"order_id"}, ParentTable: "orders", ParentColumns: []string{"id"}, Def: "order_items->orders"},
}

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}

	f, err := New("text", buf)
	require.NoError(t, err)
	assert.IsType(t, &TextFormatter{}, f)

	f, err = New("markdown", buf)
	require.NoError(t, err)
	assert.IsType(t, &MarkdownFormatter{}, f)

	_, err = New("json", buf)
	assert.EqualError(t, err, "invalid format: json (must be 'text' or 'markdown')")
}

func TestTextFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewTextFormatter(buf).Format(relations))

	want := `TABLE comments
  (post_id) → posts (id)

TABLE order_items
  (order_shop_id, order_id) → orders (shop_id, id)
  (order_id) → orders (id)

3 relations
`
	assert.Equal(t, want, buf.String())
}

func TestTextFormatterEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewTextFormatter(buf).Format(nil))
	assert.Equal(t, "no relations detected\n", buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewMarkdownFormatter(buf).Format(relations))

	want := "# Detected Relations\n\n" +
		"## comments\n\n" +
		"- (`post_id`) → **posts** (`id`) (`comments->posts`)\n\n" +
		"## order_items\n\n" +
		"- (`order_shop_id`, `order_id`) → **orders** (`shop_id`, `id`) (`order_items->orders`)\n" +
		"- (`order_id`) → **orders** (`id`) (`order_items->orders`)\n\n"
	assert.Equal(t, want, buf.String())
}

func TestMarkdownFormatterEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewMarkdownFormatter(buf).Format(nil))
	assert.Equal(t, "# Detected Relations\n\n_No relations detected._\n", buf.String())
}

func TestGroup(t *testing.T) {
	groups := group(relations)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 1)
	assert.Len(t, groups[1], 2)
	assert.Nil(t, group(nil))
}
