package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aperezolmos/orderly/internal/domain/product"
)

// Products returns the sellable product catalog. A non-empty filter is sent
// as an excluded-allergen query parameter; filtering happens server-side.
func (c *Client) Products(ctx context.Context, filter product.AllergenFilter) ([]product.Product, error) {
	var query url.Values
	if !filter.Empty() {
		query = url.Values{"excludedAllergens": []string{filter.QueryValue()}}
	}
	var out []product.Product
	if err := c.get(ctx, "/products", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product returns a single catalog entry by id.
func (c *Client) Product(ctx context.Context, id int64) (*product.Product, error) {
	var out product.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct adds a new catalog entry and returns the server's view of it.
func (c *Client) CreateProduct(ctx context.Context, p *product.Product) (*product.Product, error) {
	var out product.Product
	if err := c.post(ctx, "/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
