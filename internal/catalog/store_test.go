package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleList(n int) []Product {
	out := make([]Product, n)
	for i := range out {
		out[i] = Product{ID: ID(rune('a' + i)), ProductCode: string(rune('A' + i))}
	}
	return out
}

func TestReplaceDiscardsStaleView(t *testing.T) {
	s := NewStore(50)
	s.ActivateView(SupplierFirstParty)
	require.True(t, s.Replace(SupplierFirstParty, []Product{{ID: "c1", ProductCode: "C1"}}))

	// a slow third-party response arrives after the user went back to the
	// first-party view: it must not clobber the rendered list
	require.False(t, s.Replace(SupplierThirdParty, sampleList(3)))
	products := s.Products()
	require.Len(t, products, 1)
	require.Equal(t, ID("c1"), products[0].ID)
}

func TestReplaceAppliesForActiveView(t *testing.T) {
	s := NewStore(50)
	s.ActivateView(SupplierThirdParty)
	require.True(t, s.Replace(SupplierThirdParty, sampleList(2)))
	require.Len(t, s.Products(), 2)
}

func TestFirstFirstPartyLoadAppliesEvenAfterViewSwitch(t *testing.T) {
	s := NewStore(50)
	s.ActivateView(SupplierThirdParty)
	// nothing loaded yet: first-party data racing an empty cache still lands
	require.True(t, s.Replace(SupplierFirstParty, sampleList(1)))
	require.Len(t, s.Products(), 1)
}

func TestFailKeepsPreviousData(t *testing.T) {
	s := NewStore(50)
	s.ActivateView(SupplierFirstParty)
	require.True(t, s.Replace(SupplierFirstParty, sampleList(2)))

	loadErr := errors.New("boom")
	s.Fail(SupplierFirstParty, loadErr)
	require.Len(t, s.Products(), 2)
	require.ErrorIs(t, s.Err(), loadErr)
	require.NotErrorIs(t, s.Err(), ErrEmptyCatalog)
}

func TestFailOnEmptyCacheFlagsEmptyCatalog(t *testing.T) {
	s := NewStore(50)
	s.Fail(SupplierFirstParty, errors.New("cold start"))
	require.ErrorIs(t, s.Err(), ErrEmptyCatalog)
}

func TestFailForInactiveViewIgnored(t *testing.T) {
	s := NewStore(50)
	s.ActivateView(SupplierFirstParty)
	s.Fail(SupplierThirdParty, errors.New("slow others"))
	require.NoError(t, s.Err())
}

func TestReplaceClearsErrorFlag(t *testing.T) {
	s := NewStore(50)
	s.Fail(SupplierFirstParty, errors.New("boom"))
	require.True(t, s.Replace(SupplierFirstParty, sampleList(1)))
	require.NoError(t, s.Err())
}

func TestPageAndLoadMore(t *testing.T) {
	s := NewStore(2)
	require.True(t, s.Replace(SupplierFirstParty, sampleList(5)))

	page, hasMore := s.Page()
	require.Len(t, page, 2)
	require.True(t, hasMore)

	s.LoadMore()
	page, hasMore = s.Page()
	require.Len(t, page, 4)
	require.True(t, hasMore)

	s.LoadMore()
	page, hasMore = s.Page()
	require.Len(t, page, 5)
	require.False(t, hasMore)
}

func TestEnsureVisibleExtendsWindowToDeepLinkedProduct(t *testing.T) {
	s := NewStore(2)
	list := sampleList(6)
	list[4].ProductCode = "2202._Al"
	require.True(t, s.Replace(SupplierFirstParty, list))

	idx := s.EnsureVisible("2202._AI")
	require.Equal(t, 4, idx)

	page, _ := s.Page()
	require.Len(t, page, 5)
	require.Equal(t, "2202._Al", page[4].ProductCode)
}

func TestReplaceResetsVisibleWindow(t *testing.T) {
	s := NewStore(2)
	require.True(t, s.Replace(SupplierFirstParty, sampleList(6)))
	s.LoadMore()
	require.True(t, s.Replace(SupplierFirstParty, sampleList(6)))
	page, _ := s.Page()
	require.Len(t, page, 2)
}

func TestMergeUpsertsById(t *testing.T) {
	s := NewStore(50)
	require.True(t, s.Replace(SupplierFirstParty, sampleList(2)))

	// same id replaces in place instead of duplicating
	s.Merge(Product{ID: "a", Name: "refetched", ImagePath: "/img/a.jpg"})
	products := s.Products()
	require.Len(t, products, 2)
	require.Equal(t, "refetched", products[0].Name)

	s.Merge(Product{ID: "z9", Name: "new"})
	require.Len(t, s.Products(), 3)
}

func TestActivateViewReportsCachedData(t *testing.T) {
	s := NewStore(50)
	require.False(t, s.ActivateView(SupplierFirstParty))
	require.True(t, s.Replace(SupplierFirstParty, sampleList(1)))
	require.True(t, s.ActivateView(SupplierFirstParty))
	require.False(t, s.ActivateView(SupplierThirdParty))
}
