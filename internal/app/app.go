package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/aperezolmos/orderly/internal/dashboard"
	"github.com/aperezolmos/orderly/internal/domain/auth"
	"github.com/aperezolmos/orderly/internal/domain/product"
	"github.com/aperezolmos/orderly/internal/gateway"
	"github.com/aperezolmos/orderly/pkg/health"
)

// Run opens a dashboard session against the configured backend: it resolves
// the caller's permissions, bootstraps the order and product state, and logs
// a snapshot. It is the single wiring point for the session CLI.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Connecting", zap.String("base_url", cfg.BaseURL))

	gw, err := gateway.NewClient(gateway.Config{
		BaseURL:     cfg.BaseURL,
		CookieName:  cfg.CookieName,
		CookieValue: cfg.SessionCookie,
	}, gateway.WithTelemetry(m.TracerProvider(), m.MeterProvider()))
	if err != nil {
		return errors.Wrap(err, "create gateway")
	}

	// Fetching is blocked until the caller's permission set is known.
	me, err := gw.Me(ctx)
	if err != nil {
		return errors.Wrap(err, "resolve caller")
	}
	lg.Info("Authenticated",
		zap.String("username", me.Username),
		zap.Int("permissions", len(me.Permissions)),
	)

	perms := me.PermissionSet()
	if !perms.HasAny(auth.PermOrderBarView, auth.PermOrderDiningView) {
		lg.Warn("Caller cannot view any order type; the dashboard will stay empty")
	}

	store := dashboard.NewStore(gw, cfg.Freshness)
	catalog := dashboard.NewCatalog(gw, cfg.PageSize)
	ctrl := dashboard.NewController(store, catalog, dashboard.NewLogNotifier(lg))

	if err := ctrl.ResolvePermissions(perms); err != nil {
		return errors.Wrap(err, "resolve permissions")
	}

	filter := product.NewAllergenFilter(cfg.ExcludedAllergens...)
	if err := ctrl.Bootstrap(ctx, filter); err != nil {
		return errors.Wrap(err, "bootstrap dashboard")
	}

	lg.Info("Dashboard ready",
		zap.String("order_type", string(store.ActiveType())),
		zap.Int("orders", len(store.Orders())),
		zap.Int("products", catalog.Len()),
		zap.Int("product_pages", catalog.PageCount()),
	)

	// Keep the session open and watch backend connectivity until cancelled.
	monitor := health.NewMonitor(
		func(ctx context.Context) error {
			_, err := gw.Me(ctx)
			return err
		},
		health.WithInterval(cfg.HealthInterval),
		health.WithOnChange(func(healthy bool, err error) {
			if healthy {
				lg.Info("Backend reachable again")
				return
			}
			lg.Warn("Backend unreachable", zap.Error(err))
		}),
	)
	monitor.Start(ctx)
	defer monitor.Stop()

	<-ctx.Done()
	lg.Info("Session closed")
	return nil
}
