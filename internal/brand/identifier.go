// Package brand matches a (pH, TDS) pair against the reference bottled-water
// catalog. The scan is first-match in catalog order; it is not a best fit.
package brand

import (
	"math"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/standards"
)

type Identifier struct {
	brands []domain.Brand
}

// NewIdentifier copies brands. A nil slice selects the standard catalog.
func NewIdentifier(brands []domain.Brand) *Identifier {
	if brands == nil {
		brands = standards.Brands()
	}
	return &Identifier{brands: append([]domain.Brand(nil), brands...)}
}

// Identify returns the first brand containing both values. NaN never matches.
func (i *Identifier) Identify(ph, tds float64) (domain.Brand, bool) {
	if math.IsNaN(ph) || math.IsNaN(tds) {
		return domain.Brand{}, false
	}
	for _, b := range i.brands {
		if b.Matches(ph, tds) {
			return b, true
		}
	}
	return domain.Brand{}, false
}

// Catalog returns the brands in match order.
func (i *Identifier) Catalog() []domain.Brand {
	return append([]domain.Brand(nil), i.brands...)
}
