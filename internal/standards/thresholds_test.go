package standards

import (
	"encoding/json"
	"testing"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
)

func TestCatalogCoversEveryParameter(t *testing.T) {
	cat := Thresholds()
	for _, k := range domain.AllParameters() {
		entry := cat[k]
		if entry.Rule.Kind == RuleUnset {
			t.Fatalf("parameter %s has no rule", k)
		}
		if entry.DisplayName == "" {
			t.Fatalf("parameter %s has no display name", k)
		}
		if entry.Limit == "" {
			t.Fatalf("parameter %s has no limit string", k)
		}
	}
}

func TestCatalogRuleShapes(t *testing.T) {
	cat := Thresholds()

	if r := cat.Rule(domain.Temperature); r.Kind != RuleAmbient || r.Min != 22 || r.Max != 28 {
		t.Fatalf("unexpected temperature rule %+v", r)
	}
	if r := cat.Rule(domain.PH); r.Kind != RuleRange || r.Min != 6.5 || r.Max != 8.5 {
		t.Fatalf("unexpected ph rule %+v", r)
	}
	for _, k := range []domain.ParameterKey{domain.Odour, domain.Taste} {
		if r := cat.Rule(k); r.Kind != RuleQualitative {
			t.Fatalf("expected qualitative rule for %s, got %s", k, r.Kind)
		}
	}
	if r := cat.Rule(domain.Cyanide); r.Kind != RuleMax || r.Max != 0.07 {
		t.Fatalf("unexpected cyanide rule %+v", r)
	}
	if got := cat.DisplayName(domain.COD); got != "Organic Matter" {
		t.Fatalf("expected cod display name Organic Matter, got %q", got)
	}
}

func TestRuleContains(t *testing.T) {
	cases := []struct {
		rule ThresholdRule
		v    float64
		want bool
	}{
		{Max(5), 5, true},
		{Max(5), 5.01, false},
		{Min(1), 0.5, false},
		{Min(1), 1, true},
		{Range(6.5, 8.5), 6.5, true},
		{Range(6.5, 8.5), 8.6, false},
		{Qualitative("Odorless"), 0, true},
		{Qualitative("Odorless"), 1, false},
		{Ambient(22, 28), 21.9, false},
		{ThresholdRule{}, 1e9, true},
	}
	for _, tc := range cases {
		if got := tc.rule.Contains(tc.v); got != tc.want {
			t.Fatalf("%s rule %+v contains(%v) = %v, want %v", tc.rule.Kind, tc.rule, tc.v, got, tc.want)
		}
	}
}

func TestBrandsReturnsCopy(t *testing.T) {
	b := Brands()
	b[0].Name = "mutated"
	if Brands()[0].Name != "Cleo" {
		t.Fatalf("catalog must not be mutable through Brands()")
	}
	if len(b) != 8 {
		t.Fatalf("expected 8 brands, got %d", len(b))
	}
}

func TestRuleJSONEmitsBoundsForKind(t *testing.T) {
	cat := Thresholds()
	cases := []struct {
		key  domain.ParameterKey
		want string
	}{
		{domain.EColi, `{"kind":"max","max":0}`},
		{domain.TotalColiform, `{"kind":"max","max":0}`},
		{domain.PH, `{"kind":"range","min":6.5,"max":8.5}`},
		{domain.Temperature, `{"kind":"ambient","min":22,"max":28}`},
	}
	for _, tc := range cases {
		b, err := json.Marshal(cat[tc.key].Rule)
		if err != nil {
			t.Fatalf("%s: marshal: %v", tc.key, err)
		}
		if string(b) != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.key, tc.want, b)
		}
	}
}
