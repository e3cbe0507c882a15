package dashboard

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/aperezolmos/orderly/internal/domain/order"
	"github.com/aperezolmos/orderly/internal/domain/product"
)

// ErrNothingToSave is returned when a save is requested without dirty edits.
var ErrNothingToSave = errors.New("no staged changes to save")

// StatusOption is one entry of the status change control: a selectable
// status with its badge color. The order's current status is disabled.
type StatusOption struct {
	Status   order.Status
	Color    string
	Disabled bool
}

// Editor reconciles the staged quantity edits against the open order's
// authoritative item list and gates the save action. In read-only mode
// (historical orders) saving and status changes are disabled entirely.
type Editor struct {
	store    *Store
	readOnly bool
}

// NewEditor builds an editor over the store.
func NewEditor(store *Store) *Editor {
	return &Editor{store: store}
}

// SetReadOnly toggles view-only mode.
func (e *Editor) SetReadOnly(ro bool) {
	e.readOnly = ro
}

// ReadOnly reports whether the editor is in view-only mode.
func (e *Editor) ReadOnly() bool {
	return e.readOnly
}

// Dirty reports whether any staged quantity numerically differs from its
// authoritative counterpart. Draft keys with no matching item are ignored;
// this covers items removed locally after being edited.
func (e *Editor) Dirty() bool {
	sel := e.store.Selected()
	if sel == nil {
		return false
	}
	for id, qty := range e.store.Draft() {
		item, ok := sel.ItemByID(id)
		if !ok {
			continue
		}
		if item.Quantity != qty {
			return true
		}
	}
	return false
}

// CanSave reports whether the save action is enabled: there are dirty edits,
// no fetch is in flight, and the editor is not read-only.
func (e *Editor) CanSave() bool {
	return e.Dirty() && !e.store.Loading() && !e.readOnly
}

// Save transmits the full merged order when saving is allowed.
func (e *Editor) Save(ctx context.Context) (*order.Order, error) {
	if e.readOnly {
		return nil, ErrNotPermitted
	}
	if !e.Dirty() {
		return nil, ErrNothingToSave
	}
	return e.store.SaveOrder(ctx)
}

// AddProduct appends the selected catalog product to the open order with an
// initial quantity of one. The backend assigns the item id and reprices the
// order; subsequent quantity adjustments go through the draft and a save.
func (e *Editor) AddProduct(ctx context.Context, p product.Product) (*order.Order, error) {
	if e.readOnly {
		return nil, ErrNotPermitted
	}
	return e.store.AddItem(ctx, p, 1)
}

// SetQuantity stages a quantity edit for the given line item.
func (e *Editor) SetQuantity(itemID int64, qty int) {
	if e.readOnly {
		return
	}
	e.store.SetQuantity(itemID, qty)
}

// RemoveItem removes a line item locally; durable on the next save.
func (e *Editor) RemoveItem(itemID int64) bool {
	if e.readOnly {
		return false
	}
	return e.store.RemoveItem(itemID)
}

// StatusOptions returns the status change control for the open order: every
// status, colored by the fixed table, with the current one disabled. It
// returns nil when no order is open or the editor is read-only (the UI then
// renders a static badge instead of a menu).
func (e *Editor) StatusOptions() []StatusOption {
	sel := e.store.Selected()
	if sel == nil || e.readOnly {
		return nil
	}
	all := order.Statuses()
	out := make([]StatusOption, len(all))
	for i, s := range all {
		out[i] = StatusOption{
			Status:   s,
			Color:    s.Color(),
			Disabled: s == sel.Status,
		}
	}
	return out
}

// ChangeStatus dispatches a status-only update for the open order. The
// client never checks transition legality; an illegal transition comes back
// as a generic backend error.
func (e *Editor) ChangeStatus(ctx context.Context, status order.Status) (*order.Order, error) {
	if e.readOnly {
		return nil, ErrNotPermitted
	}
	sel := e.store.Selected()
	if sel == nil {
		return nil, ErrNoSelection
	}
	return e.store.UpdateStatus(ctx, sel.ID, status)
}
