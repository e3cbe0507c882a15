package dashboard

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aperezolmos/orderly/internal/domain/product"
)

func TestCatalogFetch_ReplacesList(t *testing.T) {
	gw := newMockGateway()
	gw.productList = testProducts(3)
	c := NewCatalog(gw, 0)

	require.NoError(t, c.Fetch(context.Background(), product.AllergenFilter{}))
	assert.Equal(t, 3, c.Len())

	gw.mu.Lock()
	gw.productList = testProducts(5)
	gw.mu.Unlock()

	require.NoError(t, c.Fetch(context.Background(), product.AllergenFilter{}))
	assert.Equal(t, 5, c.Len())
}

func TestCatalogFetch_FailureLeavesPriorList(t *testing.T) {
	gw := newMockGateway()
	gw.productList = testProducts(3)
	c := NewCatalog(gw, 0)
	require.NoError(t, c.Fetch(context.Background(), product.AllergenFilter{}))

	gw.mu.Lock()
	gw.productsErr = errors.New("backend down")
	gw.mu.Unlock()

	err := c.Fetch(context.Background(), product.AllergenFilter{})
	require.Error(t, err)
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Loading())
}

func TestCatalogFetch_LoadingFlagDuringFetch(t *testing.T) {
	gw := newMockGateway()
	c := NewCatalog(gw, 0)

	var seenLoading bool
	gw.onProducts = func() { seenLoading = c.Loading() }

	require.NoError(t, c.Fetch(context.Background(), product.AllergenFilter{}))
	assert.True(t, seenLoading)
	assert.False(t, c.Loading())
}

func TestCatalogFetch_SendsFilter(t *testing.T) {
	gw := newMockGateway()
	c := NewCatalog(gw, 0)

	filter := product.NewAllergenFilter("gluten", "nuts")
	require.NoError(t, c.Fetch(context.Background(), filter))

	gw.mu.Lock()
	defer gw.mu.Unlock()
	assert.Equal(t, "gluten,nuts", gw.lastFilter.QueryValue())
	assert.Equal(t, "gluten,nuts", c.Filter().QueryValue())
}

func TestCatalogPaging(t *testing.T) {
	gw := newMockGateway()
	gw.productList = testProducts(30)
	c := NewCatalog(gw, 12)
	require.NoError(t, c.Fetch(context.Background(), product.AllergenFilter{}))

	assert.Equal(t, 3, c.PageCount())
	assert.Len(t, c.Page(), 12)

	c.SetPage(2)
	assert.Len(t, c.Page(), 6)

	// Out-of-range cursors clamp instead of failing.
	c.SetPage(99)
	assert.Equal(t, 2, c.CurrentPage())
	c.SetPage(-1)
	assert.Equal(t, 0, c.CurrentPage())
}

func TestCatalogFetch_ResetsPageCursor(t *testing.T) {
	gw := newMockGateway()
	gw.productList = testProducts(30)
	c := NewCatalog(gw, 12)
	require.NoError(t, c.Fetch(context.Background(), product.AllergenFilter{}))

	c.SetPage(2)
	require.NoError(t, c.Fetch(context.Background(), product.AllergenFilter{}))
	assert.Equal(t, 0, c.CurrentPage())
}

func TestCatalogEmptyList(t *testing.T) {
	gw := newMockGateway()
	c := NewCatalog(gw, 12)

	assert.Equal(t, 1, c.PageCount())
	assert.Empty(t, c.Page())
}
