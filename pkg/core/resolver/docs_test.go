package resolver

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocs(t *testing.T) {
	idx, err := ParseDocs("testdata/shop")
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, "Lines returns the order lines.\n\n@return Line[]\n", idx.Lookup("shop.Order", "Lines"))
	assert.Equal(t, "Customer returns the buyer, if any.\n@return Customer|null\n", idx.Lookup("shop.Order", "Customer"))
	assert.Equal(t, "Items returns the page items.\n", idx.Lookup("shop.Page", "Items"))
	assert.Empty(t, idx.Lookup("shop.Order", "Total"))
	assert.Empty(t, idx.Lookup("shop.Order", "Skipped"))

	assert.True(t, idx.Declares("shop.Order", "Total"))
	assert.True(t, idx.Declares("shop.Page", "Items"))
	assert.False(t, idx.Declares("shop.Order", "Skipped"))
}

func TestParseDocsKeepsSameTypeNamesApart(t *testing.T) {
	idx, err := ParseDocs("testdata/shop", "testdata/billing")
	require.NoError(t, err)

	assert.Equal(t, "Lines returns the order lines.\n\n@return Line[]\n", idx.Lookup("shop.Order", "Lines"))
	assert.Equal(t, "Lines returns the invoiced lines.\n\n@return Invoice[]\n", idx.Lookup("billing.Order", "Lines"))
	assert.Empty(t, idx.Lookup("Order", "Lines"))
}

type Page[T any] struct{}

func TestTypeKey(t *testing.T) {
	assert.Equal(t, "resolver.Author", TypeKey(reflect.TypeOf(Author{})))
	assert.Equal(t, "resolver.Page", TypeKey(reflect.TypeOf(Page[int]{})))
}

func TestParseDocsMissingDir(t *testing.T) {
	_, err := ParseDocs("testdata/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading model sources")
}
