package dashboard

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/aperezolmos/orderly/internal/domain/product"
)

// DefaultPageSize is the product grid page size in the order dashboard.
const DefaultPageSize = 12

// Catalog caches the sellable product list for the current allergen filter
// and paginates it client-side. A fetch replaces the whole list on success
// and leaves the previous list untouched on failure; the loading flag, not
// the content, signals freshness while a fetch is in flight.
type Catalog struct {
	gw       ProductGateway
	pageSize int

	mu       sync.Mutex
	products []product.Product
	filter   product.AllergenFilter
	page     int
	loading  bool
}

// NewCatalog builds a catalog cache over the given gateway. A non-positive
// pageSize falls back to DefaultPageSize.
func NewCatalog(gw ProductGateway, pageSize int) *Catalog {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Catalog{gw: gw, pageSize: pageSize}
}

// Fetch loads the catalog for the given filter. On success the in-memory
// list is fully replaced and the page cursor resets; on failure the prior
// list stays visible and the error is reported to the caller. There is no
// partial merge.
func (c *Catalog) Fetch(ctx context.Context, filter product.AllergenFilter) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	list, err := c.gw.Products(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return errors.Wrap(err, "fetch products")
	}
	c.products = list
	c.filter = filter
	c.page = 0
	return nil
}

// Loading reports whether a fetch is in flight.
func (c *Catalog) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Filter returns the allergen filter of the cached list.
func (c *Catalog) Filter() product.AllergenFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Products returns a copy of the full cached list.
func (c *Catalog) Products() []product.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]product.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of cached products.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.products)
}

// SetPage moves the page cursor, clamped to the valid range.
func (c *Catalog) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if max := c.pageCountLocked() - 1; n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	c.page = n
}

// CurrentPage returns the zero-based page cursor.
func (c *Catalog) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageCount returns the number of pages for the cached list. An empty list
// has one (empty) page.
func (c *Catalog) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCountLocked()
}

func (c *Catalog) pageCountLocked() int {
	if len(c.products) == 0 {
		return 1
	}
	return (len(c.products) + c.pageSize - 1) / c.pageSize
}

// Page returns a copy of the current page slice.
func (c *Catalog) Page() []product.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.page * c.pageSize
	if start >= len(c.products) {
		return nil
	}
	end := start + c.pageSize
	if end > len(c.products) {
		end = len(c.products)
	}
	out := make([]product.Product, end-start)
	copy(out, c.products[start:end])
	return out
}
