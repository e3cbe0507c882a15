// catalog-import searches a public food database by free text and creates
// pre-filled catalog entries (name, barcode, image) through the Orderly
// backend. Prices and allergens are meant to be completed afterwards in the
// product views.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/aperezolmos/orderly/internal/domain/product"
	"github.com/aperezolmos/orderly/internal/foodfacts"
	"github.com/aperezolmos/orderly/internal/gateway"
)

func main() {
	var (
		query          string
		baseURL        string
		sessionCookie  string
		searchURL      string
		searchPageSize int
		category       string
		pages          int
		dryRun         bool
	)

	flag.StringVar(&query, "query", "", "free-text food search query")
	flag.StringVar(&baseURL, "base-url", "", "Orderly backend base URL (or ORDERLY_BASE_URL env)")
	flag.StringVar(&sessionCookie, "session-cookie", "", "session cookie credential (or ORDERLY_SESSION_COOKIE env)")
	flag.StringVar(&searchURL, "search-url", "", "food-database search API base URL (or ORDERLY_FOODSEARCH_BASEURL env)")
	flag.IntVar(&searchPageSize, "search-page-size", 0, "food-database search page size (or ORDERLY_FOODSEARCH_PAGESIZE env)")
	flag.StringVar(&category, "category", "OTHER", "category assigned to imported products")
	flag.IntVar(&pages, "pages", 1, "number of search result pages to import")
	flag.BoolVar(&dryRun, "dry-run", false, "print matches without creating products")
	flag.Parse()

	if baseURL == "" {
		baseURL = os.Getenv("ORDERLY_BASE_URL")
	}
	if sessionCookie == "" {
		sessionCookie = os.Getenv("ORDERLY_SESSION_COOKIE")
	}
	if searchURL == "" {
		searchURL = os.Getenv("ORDERLY_FOODSEARCH_BASEURL")
	}
	if searchURL == "" {
		searchURL = foodfacts.DefaultBaseURL
	}
	if searchPageSize <= 0 {
		if v := os.Getenv("ORDERLY_FOODSEARCH_PAGESIZE"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				searchPageSize = n
			}
		}
	}

	if query == "" {
		slog.Error("a search query is required: set -query")
		os.Exit(1)
	}
	if baseURL == "" {
		slog.Error("backend base URL is required: set -base-url or ORDERLY_BASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, query, baseURL, sessionCookie, searchURL, category, searchPageSize, pages, dryRun); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed")
}

func run(ctx context.Context, query, baseURL, sessionCookie, searchURL, category string, searchPageSize, pages int, dryRun bool) error {
	gw, err := gateway.NewClient(gateway.Config{
		BaseURL:     baseURL,
		CookieValue: sessionCookie,
	})
	if err != nil {
		return errors.Wrap(err, "create gateway")
	}

	search := foodfacts.NewClient(searchURL, foodfacts.WithPageSize(searchPageSize))

	imported := 0
	for page := 1; page <= pages; page++ {
		result, err := search.Search(ctx, query, page)
		if err != nil {
			return errors.Wrapf(err, "search page %d", page)
		}
		if len(result.Stubs) == 0 {
			break
		}

		for _, stub := range result.Stubs {
			if stub.Name == "" {
				continue
			}

			p := &product.Product{
				Name:        stub.Name,
				Description: stub.Brand,
				Price:       decimal.Zero,
				Category:    category,
				Barcode:     stub.Barcode,
				Image:       stub.ImageURL,
			}

			if dryRun {
				slog.Info("would import",
					slog.String("name", p.Name),
					slog.String("barcode", p.Barcode),
				)
				continue
			}

			created, err := gw.CreateProduct(ctx, p)
			if err != nil {
				if ve, ok := gateway.IsValidation(err); ok {
					slog.Warn("skipping product",
						slog.String("name", p.Name),
						slog.String("reason", ve.Message),
					)
					continue
				}
				return errors.Wrapf(err, "create product %q", p.Name)
			}
			imported++
			slog.Info("imported product",
				slog.Int64("id", created.ID),
				slog.String("name", created.Name),
			)
		}

		if result.PageCount > 0 && page >= result.PageCount {
			break
		}
	}

	slog.Info("import summary", slog.Int("imported", imported), slog.String("query", query))
	return nil
}
