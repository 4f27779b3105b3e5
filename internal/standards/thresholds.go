// Package standards holds the SNI 6989-11:2019 / Permenkes 492/2010
// threshold table and the reference brand catalog. Everything here is
// immutable after package init and safe to share between goroutines.
package standards

import (
	"encoding/json"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
)

// RuleKind tags the ThresholdRule variant. The zero value is a malformed rule.
type RuleKind uint8

const (
	RuleUnset RuleKind = iota
	RuleMax
	RuleMin
	RuleRange
	RuleQualitative
	RuleAmbient
)

func (k RuleKind) String() string {
	switch k {
	case RuleMax:
		return "max"
	case RuleMin:
		return "min"
	case RuleRange:
		return "range"
	case RuleQualitative:
		return "qualitative"
	case RuleAmbient:
		return "ambient"
	default:
		return "unset"
	}
}

func (k RuleKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ThresholdRule is one regulatory limit. Only the fields relevant to Kind
// are meaningful: Max for RuleMax, Min for RuleMin, Min/Max for RuleRange and
// RuleAmbient, Expect for RuleQualitative (value must be exactly 0).
type ThresholdRule struct {
	Kind   RuleKind `json:"kind"`
	Min    float64  `json:"min,omitempty"`
	Max    float64  `json:"max,omitempty"`
	Expect string   `json:"expect,omitempty"`
}

// MarshalJSON emits only the bounds the rule kind uses, so a zero limit
// such as E. coli's still appears as "max":0.
func (r ThresholdRule) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind   RuleKind `json:"kind"`
		Min    *float64 `json:"min,omitempty"`
		Max    *float64 `json:"max,omitempty"`
		Expect string   `json:"expect,omitempty"`
	}{Kind: r.Kind, Expect: r.Expect}
	switch r.Kind {
	case RuleMax:
		out.Max = &r.Max
	case RuleMin:
		out.Min = &r.Min
	case RuleRange, RuleAmbient:
		out.Min, out.Max = &r.Min, &r.Max
	}
	return json.Marshal(out)
}

func Max(v float64) ThresholdRule { return ThresholdRule{Kind: RuleMax, Max: v} }

func Min(v float64) ThresholdRule { return ThresholdRule{Kind: RuleMin, Min: v} }

func Range(lo, hi float64) ThresholdRule { return ThresholdRule{Kind: RuleRange, Min: lo, Max: hi} }

func Qualitative(expect string) ThresholdRule {
	return ThresholdRule{Kind: RuleQualitative, Expect: expect}
}

func Ambient(lo, hi float64) ThresholdRule { return ThresholdRule{Kind: RuleAmbient, Min: lo, Max: hi} }

// Contains reports whether v satisfies the rule. Malformed rules accept everything.
func (r ThresholdRule) Contains(v float64) bool {
	switch r.Kind {
	case RuleMax:
		return v <= r.Max
	case RuleMin:
		return v >= r.Min
	case RuleRange, RuleAmbient:
		return v >= r.Min && v <= r.Max
	case RuleQualitative:
		return v <= 0
	default:
		return true
	}
}

// Entry bundles a rule with its presentation strings.
type Entry struct {
	Rule        ThresholdRule
	DisplayName string
	Limit       string
}

// Catalog maps every ParameterKey to its Entry.
type Catalog [domain.NumParameters]Entry

var thresholdTable = [...]Entry{
	domain.Color:       {Max(15), "Color", "max: 15 TCU"},
	domain.Odour:       {Qualitative("Odorless"), "Odor", "qualitative: Odorless"},
	domain.Taste:       {Qualitative("Tasteless"), "Taste", "qualitative: Tasteless"},
	domain.Turbidity:   {Max(5), "Turbidity", "max: 5 NTU"},
	domain.Temperature: {Ambient(22, 28), "Temperature", "qualitative: Ambient ±3°C"},
	domain.TDS:         {Max(500), "TDS", "max: 500 mg/L"},

	domain.PH:        {Range(6.5, 8.5), "pH", "6.5 - 8.5"},
	domain.COD:       {Max(10), "Organic Matter", "max: 10 (KMnO4 mg/L)"},
	domain.Hardness:  {Max(500), "Hardness", "max: 500 mg/L"},
	domain.Sulfate:   {Max(250), "Sulfate", "max: 250 mg/L"},
	domain.Nitrite:   {Max(3), "Nitrite", "max: 3 mg/L"},
	domain.Chloride:  {Max(250), "Chloride", "max: 250 mg/L"},
	domain.Nitrate:   {Max(50), "Nitrate", "max: 50 mg/L"},
	domain.Cyanide:   {Max(0.07), "Cyanide", "max: 0.07 mg/L"},
	domain.Fluoride:  {Max(1.5), "Fluoride", "max: 1.5 mg/L"},
	domain.Ammonia:   {Max(1.5), "Ammonia", "max: 1.5 mg/L"},
	domain.Aluminum:  {Max(0.2), "Aluminum", "max: 0.2 mg/L"},
	domain.Copper:    {Max(2), "Copper", "max: 2 mg/L"},
	domain.Iron:      {Max(0.3), "Iron", "max: 0.3 mg/L"},
	domain.Manganese: {Max(0.4), "Manganese", "max: 0.4 mg/L"},
	domain.Zinc:      {Max(3), "Zinc", "max: 3 mg/L"},

	domain.TotalColiform: {Max(0), "Total Coliform", "max: 0 (Count/100 mL)"},
	domain.EColi:         {Max(0), "E. coli", "max: 0 (Count/100 mL)"},
}

// Both array lengths must be non-negative, so a table that is shorter or
// longer than the key enumeration does not compile.
var (
	_ [domain.NumParameters - len(thresholdTable)]struct{}
	_ [len(thresholdTable) - domain.NumParameters]struct{}
)

var defaultCatalog = Catalog(thresholdTable)

// Thresholds returns the regulatory catalog. The array is returned by value.
func Thresholds() Catalog { return defaultCatalog }

// Rule returns the rule for k.
func (c *Catalog) Rule(k domain.ParameterKey) ThresholdRule {
	if !k.Valid() {
		return ThresholdRule{}
	}
	return c[k].Rule
}

// DisplayName returns the human label for k, falling back to the key name.
func (c *Catalog) DisplayName(k domain.ParameterKey) string {
	if k.Valid() && c[k].DisplayName != "" {
		return c[k].DisplayName
	}
	return k.String()
}

// Limit returns the human readable threshold string for k.
func (c *Catalog) Limit(k domain.ParameterKey) string {
	if !k.Valid() {
		return ""
	}
	return c[k].Limit
}
