package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"X27", "x27"},
		{"x27._AI", "x27"},
		{"2202._Al", "2202"},
		{"  2202._AI  ", "2202"},
		{"2202._ai ", "2202"},
		{"plain", "plain"},
		{"._AI", "._ai"},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NormalizeKey(tc.raw), "raw=%q", tc.raw)
	}
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	list := []Product{
		{ID: "1", ProductCode: "X27", Name: "original"},
		{ID: "2", ProductCode: "x27._AI", Name: "variant"},
		{ID: "3", ProductCode: "B1"},
	}
	out := Dedupe(list)
	require.Len(t, out, 2)
	require.Equal(t, "original", out[0].Name)
	require.Equal(t, "B1", out[1].ProductCode)
}

func TestDedupeIsIdempotent(t *testing.T) {
	list := []Product{
		{ID: "1", ProductCode: "X27"},
		{ID: "2", ProductCode: "x27._Al"},
		{ID: "3"},
		{ID: "3"},
		{ID: "4", ProductCode: "Z9"},
	}
	once := Dedupe(list)
	twice := Dedupe(once)
	require.Equal(t, once, twice)
}

func TestDedupeFallsBackToID(t *testing.T) {
	list := []Product{
		{ID: "77"},
		{ID: "77", Name: "later"},
	}
	require.Len(t, Dedupe(list), 1)
}

func TestFindByIDOrCodeMatchesSuffixVariants(t *testing.T) {
	list := []Product{
		{ID: "a1", ProductCode: "1000"},
		{ID: "b2", ProductCode: "2202._Al"},
	}
	require.Equal(t, 1, FindByIDOrCode(list, "2202._AI"))
	require.Equal(t, 1, FindByIDOrCode(list, "2202"))
	require.Equal(t, 0, FindByIDOrCode(list, "a1"))
	require.Equal(t, -1, FindByIDOrCode(list, "missing"))
	require.Equal(t, -1, FindByIDOrCode(list, ""))
}

func TestFindByIDOrCodePrefersExactMatch(t *testing.T) {
	list := []Product{
		{ID: "1", ProductCode: "2202._AI"},
		{ID: "2", ProductCode: "2202"},
	}
	require.Equal(t, 1, FindByIDOrCode(list, "2202"))
}

func TestPaginate(t *testing.T) {
	list := make([]Product, 7)
	visible, hasMore := Paginate(list, 5)
	require.Len(t, visible, 5)
	require.True(t, hasMore)

	visible, hasMore = Paginate(list, 10)
	require.Len(t, visible, 7)
	require.False(t, hasMore)

	visible, hasMore = Paginate(list, -1)
	require.Empty(t, visible)
	require.True(t, hasMore)
}

func TestProductIDDecodesNumbersAndStrings(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"name":"n"}`), &p))
	require.Equal(t, ID("42"), p.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"18bf4405"}`), &p))
	require.Equal(t, ID("18bf4405"), p.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &p))
	require.Equal(t, ID(""), p.ID)
}

func TestSupplierFromCode(t *testing.T) {
	require.Equal(t, SupplierFirstParty, SupplierFromCode("Cristy"))
	require.Equal(t, SupplierFirstParty, SupplierFromCode("  cristy "))
	require.Equal(t, SupplierThirdParty, SupplierFromCode("ImportadoraQ"))
	require.Equal(t, SupplierThirdParty, SupplierFromCode(""))
}

func TestHasUsableImage(t *testing.T) {
	require.True(t, Product{ImagePath: "/api/images/x.jpg"}.HasUsableImage())
	require.False(t, Product{ImagePath: "  "}.HasUsableImage())
	require.False(t, Product{ImagePath: "data:image/svg+xml,..."}.HasUsableImage())
}
