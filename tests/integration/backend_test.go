// Package integration exercises the dashboard stack end to end against an
// in-process fake of the Orderly REST backend.
package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aperezolmos/orderly/internal/domain/order"
	"github.com/aperezolmos/orderly/internal/domain/product"
)

const testSession = "test-session-token"

// fakeBackend is an in-memory stand-in for the Orderly REST API. It requires
// the session cookie on every request and counts hits per endpoint.
type fakeBackend struct {
	mu       sync.Mutex
	orders   map[order.Type][]order.Order
	products []product.Product
	nextID   int64
	userInfo userInfo

	hits        map[string]int
	failOrders  map[order.Type]bool
	lastFilter  string
	lockedIDs   map[int64]bool // deletes answered with 409
	lastUpdated *order.Order
}

type userInfo struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
}

type errorEnvelope struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		orders:     make(map[order.Type][]order.Order),
		nextID:     100,
		hits:       make(map[string]int),
		failOrders: make(map[order.Type]bool),
		lockedIDs:  make(map[int64]bool),
		userInfo: userInfo{
			Username:    "waiter1",
			Permissions: []string{"ORDER_BAR_VIEW", "ORDER_DINING_VIEW", "PRODUCT_VIEW"},
		},
	}
}

func (b *fakeBackend) serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(srv.Close)
	return srv
}

func (b *fakeBackend) hitCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.hits[r.URL.Path]++
	b.mu.Unlock()

	if c, err := r.Cookie("JSESSIONID"); err != nil || c.Value != testSession {
		writeError(w, http.StatusForbidden, "no valid session")
		return
	}

	switch {
	case r.URL.Path == "/users/me":
		b.mu.Lock()
		info := b.userInfo
		b.mu.Unlock()
		writeBody(w, http.StatusOK, info)

	case r.URL.Path == "/products":
		b.mu.Lock()
		b.lastFilter = r.URL.Query().Get("excludedAllergens")
		list := b.filteredProducts()
		b.mu.Unlock()
		writeBody(w, http.StatusOK, list)

	case r.URL.Path == "/orders/bar" && r.Method == http.MethodGet:
		b.listOrders(w, order.TypeBar)
	case r.URL.Path == "/orders/dining" && r.Method == http.MethodGet:
		b.listOrders(w, order.TypeDining)

	case strings.HasPrefix(r.URL.Path, "/orders/bar/"), strings.HasPrefix(r.URL.Path, "/orders/dining/"):
		b.handleOrderItem(w, r)

	case strings.HasSuffix(r.URL.Path, "/status") && r.Method == http.MethodPatch:
		b.updateStatus(w, r)

	case strings.HasSuffix(r.URL.Path, "/items") && r.Method == http.MethodPost:
		b.addItem(w, r)

	default:
		writeError(w, http.StatusNotFound, "no such endpoint")
	}
}

func (b *fakeBackend) filteredProducts() []product.Product {
	filter := product.NewAllergenFilter(strings.Split(b.lastFilter, ",")...)
	out := make([]product.Product, 0, len(b.products))
	for _, p := range b.products {
		excluded := false
		for _, a := range p.Allergens {
			if filter.Has(a) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, p)
		}
	}
	return out
}

func (b *fakeBackend) listOrders(w http.ResponseWriter, t order.Type) {
	b.mu.Lock()
	if b.failOrders[t] {
		b.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	list := make([]order.Order, len(b.orders[t]))
	copy(list, b.orders[t])
	b.mu.Unlock()
	writeBody(w, http.StatusOK, list)
}

func (b *fakeBackend) handleOrderItem(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		writeError(w, http.StatusNotFound, "no such endpoint")
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "no such order")
		return
	}
	t := order.TypeBar
	if parts[1] == "dining" {
		t = order.TypeDining
	}

	switch r.Method {
	case http.MethodPut:
		var o order.Order
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}
		b.mu.Lock()
		b.lastUpdated = &o
		for i := range b.orders[t] {
			if b.orders[t][i].ID == id {
				b.orders[t][i] = o
			}
		}
		b.mu.Unlock()
		writeBody(w, http.StatusOK, o)

	case http.MethodDelete:
		b.mu.Lock()
		locked := b.lockedIDs[id]
		if !locked {
			list := b.orders[t]
			for i := range list {
				if list[i].ID == id {
					b.orders[t] = append(list[:i], list[i+1:]...)
					break
				}
			}
		}
		b.mu.Unlock()
		if locked {
			writeError(w, http.StatusConflict, "order is referenced by an open invoice")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusNotFound, "no such endpoint")
	}
}

func (b *fakeBackend) updateStatus(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "no such order")
		return
	}
	status := order.Status(r.URL.Query().Get("status"))

	b.mu.Lock()
	defer b.mu.Unlock()
	for t := range b.orders {
		for i := range b.orders[t] {
			if b.orders[t][i].ID == id {
				b.orders[t][i].Status = status
				writeBody(w, http.StatusOK, b.orders[t][i])
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("order %d not found", id))
}

func (b *fakeBackend) addItem(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "no such order")
		return
	}
	var item order.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	item.ID = b.nextID
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	for t := range b.orders {
		for i := range b.orders[t] {
			if b.orders[t][i].ID == id {
				b.orders[t][i].Items = append(b.orders[t][i].Items, item)
				writeBody(w, http.StatusOK, b.orders[t][i])
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("order %d not found", id))
}

func writeBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeBody(w, status, errorEnvelope{Status: status, Error: http.StatusText(status), Message: msg})
}

// --- Fixtures ---

func seedBarOrder(id int64) order.Order {
	return order.Order{
		ID:     id,
		Number: fmt.Sprintf("B-%03d", id),
		Type:   order.TypeBar,
		Status: order.StatusPending,
		Items: []order.Item{
			{ID: id*10 + 1, ProductID: 1, ProductName: "Lemonade", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 2},
			{ID: id*10 + 2, ProductID: 2, ProductName: "Nachos", UnitPrice: decimal.RequireFromString("4.00"), Quantity: 1},
		},
	}
}

func seedDiningOrder(id int64) order.Order {
	return order.Order{
		ID:     id,
		Number: fmt.Sprintf("D-%03d", id),
		Type:   order.TypeDining,
		Status: order.StatusInProgress,
		Table:  &order.TableRef{ID: 1, Number: 4},
		Items: []order.Item{
			{ID: id*10 + 1, ProductID: 3, ProductName: "Paella", UnitPrice: decimal.RequireFromString("12.00"), Quantity: 2},
		},
	}
}

func seedProducts() []product.Product {
	return []product.Product{
		{ID: 1, Name: "Lemonade", Price: decimal.RequireFromString("2.50"), Category: "DRINK"},
		{ID: 2, Name: "Nachos", Price: decimal.RequireFromString("4.00"), Category: "FOOD", Allergens: []string{"gluten"}},
		{ID: 3, Name: "Paella", Price: decimal.RequireFromString("12.00"), Category: "FOOD"},
	}
}
