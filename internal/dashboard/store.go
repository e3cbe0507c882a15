package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/aperezolmos/orderly/internal/domain/order"
	"github.com/aperezolmos/orderly/internal/domain/product"
)

// DefaultFreshness is the time-to-live of a cached per-type order list.
// Switching to a type whose list is still within this window does not hit
// the network.
const DefaultFreshness = time.Minute

// ErrNoSelection is returned by operations that require an open order.
var ErrNoSelection = errors.New("no order selected")

// Store is the authoritative holder of the per-type order lists, the current
// selection, and the draft quantity edits staged against the open order.
//
// Mutations are serialized by the store's mutex; concurrent fetches simply
// overwrite state on completion, last response wins. There is no optimistic
// locking: racing updates of the same order are resolved server-side by
// whichever request lands last.
type Store struct {
	gw  OrderGateway
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	orders    map[order.Type][]order.Order
	fetchedAt map[order.Type]time.Time
	active    order.Type
	selected  *order.Order
	draft     map[int64]int
	loading   bool
}

// NewStore builds a collection store over the given gateway. A non-positive
// ttl falls back to DefaultFreshness. The active type starts as BAR.
func NewStore(gw OrderGateway, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &Store{
		gw:        gw,
		ttl:       ttl,
		now:       time.Now,
		active:    order.TypeBar,
		orders:    make(map[order.Type][]order.Order, 2),
		fetchedAt: make(map[order.Type]time.Time, 2),
		draft:     make(map[int64]int),
	}
}

// ActiveType returns the currently active order type.
func (s *Store) ActiveType() order.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetType switches which per-type list is active. It does not fetch; the
// controller decides whether a fetch (and a rollback on failure) is needed.
func (s *Store) SetType(t order.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = t
}

// Loading reports whether an order fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Fresh reports whether the cached list for t is within the freshness window.
// A type that has never been fetched is never fresh.
func (s *Store) Fresh(t order.Type) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.fetchedAt[t]
	return ok && s.now().Sub(at) < s.ttl
}

// Orders returns a copy of the active type's order list.
func (s *Store) Orders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrders(s.orders[s.active])
}

// OrdersOf returns a copy of the order list cached for t.
func (s *Store) OrdersOf(t order.Type) []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrders(s.orders[t])
}

// FetchOrders replaces the in-memory list for t with the backend's and
// stamps its freshness. On failure the cached list and stamp are untouched.
func (s *Store) FetchOrders(ctx context.Context, t order.Type) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	list, err := s.gw.Orders(ctx, t)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return errors.Wrap(err, "fetch orders")
	}
	s.orders[t] = list
	s.fetchedAt[t] = s.now()
	return nil
}

// CreateOrder posts the order and appends the server's result to the cached
// list of its type. The new order is not selected; the caller decides.
func (s *Store) CreateOrder(ctx context.Context, o *order.Order, t order.Type) (*order.Order, error) {
	o.Type = t
	created, err := s.gw.CreateOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[created.Type] = append(s.orders[created.Type], *created)
	return created, nil
}

// Selected returns a copy of the currently open order, or nil.
func (s *Store) Selected() *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	return cloneOrder(s.selected)
}

// Select opens an order in the editor. When the selection changes identity
// (including selecting nil), the draft edits are unconditionally cleared so
// edits never leak across orders. Re-selecting the same order refreshes the
// held copy and keeps the draft.
func (s *Store) Select(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o == nil {
		if s.selected != nil {
			s.selected = nil
			s.draft = make(map[int64]int)
		}
		return
	}
	if s.selected == nil || s.selected.ID != o.ID {
		s.draft = make(map[int64]int)
	}
	s.selected = cloneOrder(o)
}

// SetQuantity stages a pending quantity for the given line item of the open
// order. The draft is never sent incrementally; it is merged into the full
// payload on save.
func (s *Store) SetQuantity(itemID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft[itemID] = qty
}

// ResetDraft discards all staged quantity edits.
func (s *Store) ResetDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = make(map[int64]int)
}

// Draft returns a copy of the staged quantity edits.
func (s *Store) Draft() map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int, len(s.draft))
	for k, v := range s.draft {
		out[k] = v
	}
	return out
}

// RemoveItem removes a line item from the open order's in-memory item list.
// It does not call the backend: the removal becomes durable only when the
// next save transmits the full order. Any staged edit for the removed item
// remains in the draft and is ignored by the dirty check.
func (s *Store) RemoveItem(itemID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return false
	}
	for i := range s.selected.Items {
		if s.selected.Items[i].ID == itemID {
			s.selected.Items = append(s.selected.Items[:i], s.selected.Items[i+1:]...)
			return true
		}
	}
	return false
}

// AddItem appends a line item for the given catalog product to the open
// order through the item endpoint and refreshes local state from the
// server's response (item id and totals assigned server-side). Unlike
// removals, which stay local until the next save, an addition is durable
// immediately. Staged quantity edits survive; they target other items.
func (s *Store) AddItem(ctx context.Context, p product.Product, qty int) (*order.Order, error) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	id := s.selected.ID
	s.mu.Unlock()

	item := order.Item{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    qty,
	}
	updated, err := s.gw.AddOrderItem(ctx, id, item)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(updated)
	if s.selected != nil && s.selected.ID == updated.ID {
		s.selected = cloneOrder(updated)
	}
	return updated, nil
}

// SaveOrder transmits the full open order, with authoritative quantities
// overridden by any staged draft values, and replaces local state with the
// server's response. The draft is cleared only on success.
func (s *Store) SaveOrder(ctx context.Context) (*order.Order, error) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	payload := s.selected.WithQuantities(s.draft)
	s.mu.Unlock()

	updated, err := s.gw.UpdateOrder(ctx, &payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(updated)
	if s.selected != nil && s.selected.ID == updated.ID {
		s.selected = cloneOrder(updated)
		s.draft = make(map[int64]int)
	}
	return updated, nil
}

// UpdateStatus changes only the order's status via the dedicated endpoint and
// folds the server's response into local state.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	updated, err := s.gw.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(updated)
	if s.selected != nil && s.selected.ID == updated.ID {
		items := s.selected.Items
		s.selected = cloneOrder(updated)
		// Keep locally removed items removed; the status endpoint returns
		// the authoritative item list, but unsaved removals stay staged.
		if len(items) < len(s.selected.Items) {
			s.selected.Items = items
		}
	}
	return updated, nil
}

// DeleteOrder removes the order from the backend and the cached list. If the
// removed order was selected, the selection and draft are cleared; deleting
// any other order leaves the selection untouched.
func (s *Store) DeleteOrder(ctx context.Context, id int64, t order.Type) error {
	if err := s.gw.DeleteOrder(ctx, id, t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.orders[t]
	for i := range list {
		if list[i].ID == id {
			s.orders[t] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
		s.draft = make(map[int64]int)
	}
	return nil
}

// replaceLocked swaps the cached list entry matching o's id, if present.
func (s *Store) replaceLocked(o *order.Order) {
	list := s.orders[o.Type]
	for i := range list {
		if list[i].ID == o.ID {
			list[i] = *o
			return
		}
	}
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = make([]order.Item, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func copyOrders(list []order.Order) []order.Order {
	out := make([]order.Order, len(list))
	copy(out, list)
	return out
}
