package standards

import "github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"

// Order is part of the contract: identification returns the first brand
// whose ranges contain the reading, and several ranges overlap.
var brandCatalog = []domain.Brand{
	{Name: "Cleo", PHRange: [2]float64{7.3, 8.1}, TDSRange: [2]float64{6, 13}},
	{Name: "Amidis", PHRange: [2]float64{7.4, 8.4}, TDSRange: [2]float64{0, 5}},
	{Name: "Watercoin", PHRange: [2]float64{7.3, 8.1}, TDSRange: [2]float64{14, 35}},
	{Name: "Le Minerale", PHRange: [2]float64{7.8, 8.4}, TDSRange: [2]float64{80, 90}},
	{Name: "Aqua", PHRange: [2]float64{7.7, 8.0}, TDSRange: [2]float64{50, 79}},
	{Name: "Pristine 8+", PHRange: [2]float64{8.0, 9.9}, TDSRange: [2]float64{91, 119}},
	{Name: "VIT", PHRange: [2]float64{6.0, 8.5}, TDSRange: [2]float64{120, 178}},
	{Name: "Nestle Pure Life", PHRange: [2]float64{7.7, 7.9}, TDSRange: [2]float64{36, 49}},
}

// Brands returns a copy of the ordered reference catalog.
func Brands() []domain.Brand {
	out := make([]domain.Brand, len(brandCatalog))
	copy(out, brandCatalog)
	return out
}
