package synth

import (
	"math"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// span is an inclusive uniform draw rounded to decimals places.
type span struct {
	lo, hi   float64
	decimals int
}

func (s span) draw(rng ports.Rand) float64 {
	return roundTo(rng.Float64()*(s.hi-s.lo)+s.lo, s.decimals)
}

func roundTo(v float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Round(v*f) / f
}

// profile describes how one parameter is synthesized. Microbiology and the
// qualitative keys are handled separately and leave safe/bad zero.
type profile struct {
	unit string
	safe span
	bad  span
}

var profiles = [domain.NumParameters]profile{
	domain.Color:       {"TCU", span{0, 10, 0}, span{16, 80, 0}},
	domain.Odour:       {"", span{}, span{}},
	domain.Taste:       {"", span{}, span{}},
	domain.Turbidity:   {"NTU", span{0, 3, 1}, span{6, 50, 1}},
	domain.Temperature: {"°C", span{23, 26, 1}, span{29, 40, 1}},
	domain.TDS:         {"ppm", span{1, 100, 0}, span{600, 2000, 0}},

	domain.PH:        {"", span{6.6, 8.4, 1}, span{}},
	domain.COD:       {"mg/L", span{0, 5, 1}, span{11, 50, 1}},
	domain.Hardness:  {"mg/L", span{50, 300, 0}, span{501, 1000, 0}},
	domain.Sulfate:   {"mg/L", span{0, 100, 1}, span{251, 800, 1}},
	domain.Nitrite:   {"mg/L", span{0, 0.5, 2}, span{4, 20, 2}},
	domain.Chloride:  {"mg/L", span{0, 100, 1}, span{251, 1000, 1}},
	domain.Nitrate:   {"mg/L", span{0, 20, 1}, span{51, 300, 1}},
	domain.Cyanide:   {"mg/L", span{0, 0.01, 3}, span{0.08, 1, 3}},
	domain.Fluoride:  {"mg/L", span{0, 0.5, 2}, span{1.6, 5, 2}},
	domain.Ammonia:   {"mg/L", span{0, 0.5, 2}, span{1.6, 10, 2}},
	domain.Aluminum:  {"mg/L", span{0, 0.05, 2}, span{0.21, 5, 2}},
	domain.Copper:    {"mg/L", span{0, 0.5, 2}, span{2.1, 10, 2}},
	domain.Iron:      {"mg/L", span{0, 0.1, 2}, span{0.31, 5, 2}},
	domain.Manganese: {"mg/L", span{0, 0.05, 2}, span{0.41, 5, 2}},
	domain.Zinc:      {"mg/L", span{0, 1, 2}, span{3.1, 20, 2}},

	domain.TotalColiform: {"CFU/100mL", span{}, span{}},
	domain.EColi:         {"CFU/100mL", span{}, span{}},
}

// pH violations straddle the legal 6.5-8.5 band on either side.
var (
	phAcidic   = span{4.5, 6.4, 1}
	phAlkaline = span{8.6, 10, 1}
)

// Microbiology ranges depend on the UV sterilizer.
var (
	ecoliBaselineUVOff    = span{1, 15, 0}
	coliformBaselineUVOff = span{3, 25, 0}

	ecoliViolationUVOff    = span{8, 40, 0}
	ecoliViolationUVOn     = span{1, 20, 0}
	coliformViolationUVOff = span{15, 80, 0}
	coliformViolationUVOn  = span{1, 50, 0}
)

const (
	odourFailProbability = 0.4
	tasteFailProbability = 0.3
	maxViolations        = 3
)

// violatable lists the keys a bad packet may push out of range.
var violatable = []domain.ParameterKey{
	domain.TDS, domain.Turbidity, domain.Color, domain.Temperature, domain.PH,
	domain.COD, domain.Hardness, domain.Sulfate, domain.Nitrite, domain.Chloride,
	domain.Nitrate, domain.Cyanide, domain.Fluoride, domain.Ammonia, domain.Aluminum,
	domain.Copper, domain.Iron, domain.Manganese, domain.Zinc,
	domain.TotalColiform, domain.EColi,
}

// Violatable returns the keys eligible for injected violations.
func Violatable() []domain.ParameterKey {
	return append([]domain.ParameterKey(nil), violatable...)
}
