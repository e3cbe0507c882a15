package dashboard

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/aperezolmos/orderly/internal/domain/auth"
	"github.com/aperezolmos/orderly/internal/domain/order"
	"github.com/aperezolmos/orderly/internal/domain/product"
)

// Phase is the bootstrap state of the dashboard session. Fetching is blocked
// until the caller's permission set is known; the only transition out of
// Uninitialized is the permission-resolution event.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhasePermissionsResolved
	PhaseLoading
	PhaseReady
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhasePermissionsResolved:
		return "permissions_resolved"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Controller sentinel errors.
var (
	ErrPermissionsPending = errors.New("permissions not resolved")
	ErrAlreadyResolved    = errors.New("permissions already resolved")
	ErrNotReady           = errors.New("dashboard not ready")
	ErrNotPermitted       = errors.New("not permitted")
)

// Controller sequences the dashboard session: no network call fires before
// the caller's permissions are known, the product catalog loads exactly once,
// and a failed order-type switch rolls the store back to the last
// successfully loaded type. It performs no rendering.
type Controller struct {
	store    *Store
	catalog  *Catalog
	notifier Notifier

	mu            sync.Mutex
	phase         Phase
	perms         auth.Permissions
	lastLoaded    order.Type
	catalogLoaded bool
}

// NewController builds a controller over the store and catalog. A nil
// notifier discards notifications.
func NewController(store *Store, catalog *Catalog, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		store:    store,
		catalog:  catalog,
		notifier: notifier,
	}
}

// Phase returns the current bootstrap phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// CanView reports whether the resolved permissions allow viewing orders of t.
func (c *Controller) CanView(t order.Type) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canViewLocked(t)
}

func (c *Controller) canViewLocked(t order.Type) bool {
	switch t {
	case order.TypeBar:
		return c.perms.Has(auth.PermOrderBarView)
	case order.TypeDining:
		return c.perms.Has(auth.PermOrderDiningView)
	default:
		return false
	}
}

// ResolvePermissions records the caller's permission set and unblocks
// fetching. When the caller may view only one order type, the store's active
// type is forced to it before any fetch fires, so the initial load is not
// wasted on a collection the caller cannot see.
func (c *Controller) ResolvePermissions(perms auth.Permissions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseUninitialized {
		return ErrAlreadyResolved
	}
	c.perms = perms

	canBar := perms.Has(auth.PermOrderBarView)
	canDining := perms.Has(auth.PermOrderDiningView)
	switch {
	case canDining && !canBar:
		c.store.SetType(order.TypeDining)
	case canBar && !canDining:
		c.store.SetType(order.TypeBar)
	}

	c.phase = PhasePermissionsResolved
	return nil
}

// Bootstrap performs the initial load: the active type's orders and, exactly
// once per session, the product catalog (gated by the product-view
// permission). The two fetches run in parallel. On failure the controller
// returns to PermissionsResolved so the caller may bootstrap again; it never
// retries on its own.
func (c *Controller) Bootstrap(ctx context.Context, filter product.AllergenFilter) error {
	c.mu.Lock()
	switch c.phase {
	case PhaseReady:
		c.mu.Unlock()
		return nil
	case PhasePermissionsResolved:
	default:
		c.mu.Unlock()
		return ErrPermissionsPending
	}
	c.phase = PhaseLoading
	active := c.store.ActiveType()
	loadOrders := c.canViewLocked(active)
	loadCatalog := c.perms.Has(auth.PermProductView) && !c.catalogLoaded
	c.mu.Unlock()

	c.notifier.Progress("loading dashboard")

	g, gctx := errgroup.WithContext(ctx)
	if loadOrders {
		g.Go(func() error {
			return c.store.FetchOrders(gctx, active)
		})
	}
	if loadCatalog {
		g.Go(func() error {
			return c.catalog.Fetch(gctx, filter)
		})
	}

	if err := g.Wait(); err != nil {
		c.mu.Lock()
		c.phase = PhasePermissionsResolved
		c.mu.Unlock()
		c.notifier.Error("dashboard load failed", err)
		return errors.Wrap(err, "bootstrap")
	}

	c.mu.Lock()
	c.phase = PhaseReady
	if loadOrders {
		c.lastLoaded = active
	}
	if loadCatalog {
		c.catalogLoaded = true
	}
	c.mu.Unlock()
	return nil
}

// SwitchType makes t the active order type. A type whose cached list is
// still fresh switches silently without a network call; a stale or
// never-fetched type triggers exactly one fetch with a progress
// notification. If that fetch fails, the active type is rolled back to the
// last successfully loaded one and the error is surfaced; there is no
// automatic retry.
func (c *Controller) SwitchType(ctx context.Context, t order.Type) error {
	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if !c.canViewLocked(t) {
		c.mu.Unlock()
		return ErrNotPermitted
	}
	prev := c.lastLoaded
	c.mu.Unlock()

	c.store.SetType(t)
	if c.store.Fresh(t) {
		c.mu.Lock()
		c.lastLoaded = t
		c.mu.Unlock()
		return nil
	}

	c.notifier.Progress("loading orders")
	if err := c.store.FetchOrders(ctx, t); err != nil {
		if prev != "" {
			c.store.SetType(prev)
		}
		c.notifier.Error("failed to load orders", err)
		return err
	}

	c.mu.Lock()
	c.lastLoaded = t
	c.mu.Unlock()
	return nil
}

// FilterCatalog re-fetches the product catalog with a new excluded-allergen
// set. Filtering is a backend query, not client-side post-filtering.
func (c *Controller) FilterCatalog(ctx context.Context, filter product.AllergenFilter) error {
	c.mu.Lock()
	permitted := c.perms.Has(auth.PermProductView)
	ready := c.phase == PhaseReady
	c.mu.Unlock()

	if !ready {
		return ErrNotReady
	}
	if !permitted {
		return ErrNotPermitted
	}

	if err := c.catalog.Fetch(ctx, filter); err != nil {
		c.notifier.Error("failed to load products", err)
		return err
	}
	return nil
}
