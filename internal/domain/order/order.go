package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type partitions orders into the two dashboard collections. It determines
// which optional fields apply: dining orders reference a table, bar orders
// may be flagged as drinks-only.
type Type string

const (
	TypeBar    Type = "BAR"
	TypeDining Type = "DINING"
)

// Valid reports whether t is a known order type.
func (t Type) Valid() bool {
	return t == TypeBar || t == TypeDining
}

// MaxNotesLen is the maximum length of the free-form notes field.
const MaxNotesLen = 255

// Sentinel errors for client-side order validation.
var (
	ErrInvalidType   = fmt.Errorf("invalid order type")
	ErrNotesTooLong  = fmt.Errorf("notes exceed %d characters", MaxNotesLen)
	ErrTableRequired = fmt.Errorf("dining order requires a table")
)

// TableRef identifies the dining table an order is attached to.
type TableRef struct {
	ID     int64 `json:"id"`
	Number int   `json:"number"`
}

// Order is a customer order as served by the backend. Number is the unique
// business key; it may be user-supplied on creation, otherwise the server
// generates one. Total is derived server-side.
type Order struct {
	ID         int64           `json:"id"`
	Number     string          `json:"orderNumber"`
	Type       Type            `json:"type"`
	Customer   string          `json:"customerName,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Status     Status          `json:"status"`
	Total      decimal.Decimal `json:"totalAmount"`
	Table      *TableRef       `json:"table,omitempty"`
	DrinksOnly bool            `json:"drinksOnly,omitempty"`
	Employee   string          `json:"employeeName,omitempty"`
	Items      []Item          `json:"items"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Item is a single line in an order. TotalPrice is derived from the unit
// price and quantity; the server-computed value is authoritative.
type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// Validate checks the client-enforceable invariants before an order is sent
// to the backend. Status transition legality is deliberately not checked.
func (o *Order) Validate() error {
	if !o.Type.Valid() {
		return ErrInvalidType
	}
	if len(o.Notes) > MaxNotesLen {
		return ErrNotesTooLong
	}
	if o.Type == TypeDining && o.Table == nil {
		return ErrTableRequired
	}
	return nil
}

// ItemByID returns the line item with the given id.
func (o *Order) ItemByID(id int64) (*Item, bool) {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// WithQuantities returns a copy of the order whose item quantities are
// overridden by the staged draft values. Draft keys with no matching item are
// ignored. Line totals are recomputed locally for display; the server
// recomputes them authoritatively on save.
func (o *Order) WithQuantities(draft map[int64]int) Order {
	merged := *o
	merged.Items = make([]Item, len(o.Items))
	copy(merged.Items, o.Items)

	for i := range merged.Items {
		q, ok := draft[merged.Items[i].ID]
		if !ok {
			continue
		}
		merged.Items[i].Quantity = q
		merged.Items[i].TotalPrice = merged.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(q)))
	}
	return merged
}
