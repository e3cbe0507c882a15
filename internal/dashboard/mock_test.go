package dashboard

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/aperezolmos/orderly/internal/domain/order"
	"github.com/aperezolmos/orderly/internal/domain/product"
)

// mockGateway implements OrderGateway and ProductGateway in memory and
// records the calls the store and catalog make.
type mockGateway struct {
	mu sync.Mutex

	ordersByType map[order.Type][]order.Order
	ordersErr    error
	fetchCalls   map[order.Type]int
	onOrders     func()

	createResult *order.Order
	createErr    error

	updatePayload *order.Order
	updateErr     error

	statusErr error
	deleteErr error

	addedItems []order.Item
	addItemErr error

	productList  []product.Product
	productsErr  error
	productCalls int
	lastFilter   product.AllergenFilter
	onProducts   func()
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		ordersByType: make(map[order.Type][]order.Order),
		fetchCalls:   make(map[order.Type]int),
	}
}

func (m *mockGateway) Orders(_ context.Context, t order.Type) ([]order.Order, error) {
	m.mu.Lock()
	m.fetchCalls[t]++
	hook := m.onOrders
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	out := make([]order.Order, len(m.ordersByType[t]))
	copy(out, m.ordersByType[t])
	return out, nil
}

func (m *mockGateway) CreateOrder(_ context.Context, o *order.Order) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.createResult != nil {
		return m.createResult, nil
	}
	created := *o
	created.ID = 1000
	return &created, nil
}

func (m *mockGateway) UpdateOrder(_ context.Context, o *order.Order) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	cp := *o
	cp.Items = make([]order.Item, len(o.Items))
	copy(cp.Items, o.Items)
	m.updatePayload = &cp
	return &cp, nil
}

func (m *mockGateway) UpdateOrderStatus(_ context.Context, id int64, s order.Status) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	for t := range m.ordersByType {
		for i := range m.ordersByType[t] {
			if m.ordersByType[t][i].ID == id {
				updated := m.ordersByType[t][i]
				updated.Status = s
				return &updated, nil
			}
		}
	}
	return &order.Order{ID: id, Status: s, Type: order.TypeBar}, nil
}

func (m *mockGateway) DeleteOrder(_ context.Context, _ int64, _ order.Type) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteErr
}

func (m *mockGateway) AddOrderItem(_ context.Context, id int64, item order.Item) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addItemErr != nil {
		return nil, m.addItemErr
	}
	item.ID = int64(9000 + len(m.addedItems))
	m.addedItems = append(m.addedItems, item)
	for t := range m.ordersByType {
		for i := range m.ordersByType[t] {
			if m.ordersByType[t][i].ID == id {
				updated := m.ordersByType[t][i]
				updated.Items = append(append([]order.Item{}, updated.Items...), item)
				return &updated, nil
			}
		}
	}
	return &order.Order{ID: id, Type: order.TypeBar, Items: []order.Item{item}}, nil
}

func (m *mockGateway) Products(_ context.Context, filter product.AllergenFilter) ([]product.Product, error) {
	m.mu.Lock()
	m.productCalls++
	m.lastFilter = filter
	hook := m.onProducts
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	out := make([]product.Product, len(m.productList))
	copy(out, m.productList)
	return out, nil
}

func (m *mockGateway) productCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.productCalls
}

func (m *mockGateway) fetchCallCount(t order.Type) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls[t]
}

func (m *mockGateway) setOrdersErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ordersErr = err
}

func (m *mockGateway) lastUpdatePayload() *order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updatePayload
}

func (m *mockGateway) lastAddedItem() *order.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.addedItems) == 0 {
		return nil
	}
	item := m.addedItems[len(m.addedItems)-1]
	return &item
}

// --- Fixtures ---

func barOrder(id int64) order.Order {
	return order.Order{
		ID:     id,
		Number: "B-001",
		Type:   order.TypeBar,
		Status: order.StatusPending,
		Items: []order.Item{
			{ID: 10, ProductID: 100, ProductName: "Lemonade", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 2},
			{ID: 11, ProductID: 101, ProductName: "Nachos", UnitPrice: decimal.RequireFromString("4.00"), Quantity: 1},
		},
	}
}

func diningOrder(id int64) order.Order {
	return order.Order{
		ID:     id,
		Number: "D-001",
		Type:   order.TypeDining,
		Status: order.StatusInProgress,
		Table:  &order.TableRef{ID: 3, Number: 7},
		Items: []order.Item{
			{ID: 20, ProductID: 200, ProductName: "Paella", UnitPrice: decimal.RequireFromString("12.00"), Quantity: 2},
		},
	}
}

func testProducts(n int) []product.Product {
	out := make([]product.Product, n)
	for i := range out {
		out[i] = product.Product{
			ID:       int64(i + 1),
			Name:     "Product",
			Price:    decimal.RequireFromString("1.00"),
			Category: "FOOD",
		}
	}
	return out
}
