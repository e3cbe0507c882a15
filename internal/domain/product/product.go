package product

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. The dashboard treats it as read-only;
// catalog management lives in its own views.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Allergens   []string        `json:"allergens,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// AllergenFilter is the set of allergen codes the caller wants excluded from
// the product catalog. It is owned by the dashboard session, never persisted,
// and sent to the backend as a query parameter on catalog fetches.
type AllergenFilter struct {
	codes map[string]struct{}
}

// NewAllergenFilter builds a filter from the given allergen codes. Codes are
// normalized to lower case.
func NewAllergenFilter(codes ...string) AllergenFilter {
	f := AllergenFilter{codes: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			f.codes[c] = struct{}{}
		}
	}
	return f
}

// Empty reports whether the filter excludes nothing.
func (f AllergenFilter) Empty() bool {
	return len(f.codes) == 0
}

// Has reports whether the given allergen code is excluded.
func (f AllergenFilter) Has(code string) bool {
	_, ok := f.codes[strings.ToLower(code)]
	return ok
}

// Codes returns the excluded allergen codes in sorted order.
func (f AllergenFilter) Codes() []string {
	out := make([]string, 0, len(f.codes))
	for c := range f.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// QueryValue encodes the filter for use as a request query parameter.
// An empty filter encodes to an empty string.
func (f AllergenFilter) QueryValue() string {
	return strings.Join(f.Codes(), ",")
}
