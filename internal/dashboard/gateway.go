// Package dashboard implements the order-taking dashboard state model: the
// product catalog cache, the per-type order collection store with staged
// quantity edits, the permission-gated bootstrap controller, and the detail
// editor that decides when a save is allowed.
package dashboard

import (
	"context"

	"github.com/aperezolmos/orderly/internal/domain/order"
	"github.com/aperezolmos/orderly/internal/domain/product"
)

// OrderGateway is the subset of the backend client the collection store
// consumes.
type OrderGateway interface {
	Orders(ctx context.Context, t order.Type) ([]order.Order, error)
	CreateOrder(ctx context.Context, o *order.Order) (*order.Order, error)
	UpdateOrder(ctx context.Context, o *order.Order) (*order.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, s order.Status) (*order.Order, error)
	DeleteOrder(ctx context.Context, id int64, t order.Type) error
	AddOrderItem(ctx context.Context, orderID int64, item order.Item) (*order.Order, error)
}

// ProductGateway is the subset of the backend client the catalog cache
// consumes.
type ProductGateway interface {
	Products(ctx context.Context, filter product.AllergenFilter) ([]product.Product, error)
}
