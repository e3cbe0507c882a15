package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/aperezolmos/orderly/internal/domain/order"
)

// typePath returns the per-type collection path for t.
func typePath(t order.Type) (string, error) {
	switch t {
	case order.TypeBar:
		return "/orders/bar", nil
	case order.TypeDining:
		return "/orders/dining", nil
	default:
		return "", errors.Wrap(order.ErrInvalidType, string(t))
	}
}

// Orders returns every order of the given type.
func (c *Client) Orders(ctx context.Context, t order.Type) ([]order.Order, error) {
	path, err := typePath(t)
	if err != nil {
		return nil, err
	}
	var out []order.Order
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Order returns a single order by id, regardless of type.
func (c *Client) Order(ctx context.Context, id int64) (*order.Order, error) {
	var out order.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder posts a new order to the per-type collection and returns the
// server's view of it (id, number, and totals assigned).
func (c *Client) CreateOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	path, err := typePath(o.Type)
	if err != nil {
		return nil, err
	}
	var out order.Order
	if err := c.post(ctx, path, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrder sends the entire order payload: header fields plus the full
// item list with current quantities. There is no partial-patch path for item
// quantities.
func (c *Client) UpdateOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	path, err := typePath(o.Type)
	if err != nil {
		return nil, err
	}
	var out order.Order
	if err := c.put(ctx, fmt.Sprintf("%s/%d", path, o.ID), o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus changes only the order's status. It is a deliberately
// smaller request than UpdateOrder because status changes happen more often
// and independently of item edits. Transition legality is checked server-side.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, s order.Status) (*order.Order, error) {
	query := url.Values{"status": []string{string(s)}}
	var out order.Order
	if err := c.patch(ctx, fmt.Sprintf("/orders/%d/status", id), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOrder removes the order from the per-type collection.
func (c *Client) DeleteOrder(ctx context.Context, id int64, t order.Type) error {
	path, err := typePath(t)
	if err != nil {
		return err
	}
	return c.delete(ctx, fmt.Sprintf("%s/%d", path, id))
}

// AddOrderItem appends a line item to the order and returns the updated
// order, repriced server-side. Item removal has no sibling endpoint call:
// removals stay local until the next full-order save transmits them.
func (c *Client) AddOrderItem(ctx context.Context, orderID int64, item order.Item) (*order.Order, error) {
	var out order.Order
	if err := c.post(ctx, fmt.Sprintf("/orders/%d/items", orderID), item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrderNumberExists probes whether an order number is already taken. Used by
// forms for debounced uniqueness validation.
func (c *Client) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	query := url.Values{"orderNumber": []string{number}}
	var exists bool
	if err := c.get(ctx, "/orders/exists", query, &exists); err != nil {
		return false, err
	}
	return exists, nil
}
