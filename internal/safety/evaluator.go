// Package safety classifies a parameter set against the regulatory catalog.
package safety

import (
	"fmt"
	"strings"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/standards"
)

const (
	ReasonAllClear = "All parameters meet SNI standards"
	ReasonUVOff    = "UV sterilizer inactive - drinking water unsafe"

	reasonSep = "; "
)

// microbiology is checked again once the UV sterilizer is known to be on.
var microbiology = []domain.ParameterKey{domain.EColi, domain.TotalColiform}

// Evaluator is stateless after construction and safe for concurrent use.
type Evaluator struct {
	catalog standards.Catalog
}

type Option func(*evalOptions)

type evalOptions struct {
	catalog *standards.Catalog
	logger  ports.Logger
}

// WithCatalog replaces the default threshold table.
func WithCatalog(c standards.Catalog) Option {
	return func(o *evalOptions) { o.catalog = &c }
}

// WithLogger receives warnings about malformed catalog entries.
func WithLogger(l ports.Logger) Option {
	return func(o *evalOptions) { o.logger = l }
}

func NewEvaluator(opts ...Option) *Evaluator {
	var o evalOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	e := &Evaluator{catalog: standards.Thresholds()}
	if o.catalog != nil {
		e.catalog = *o.catalog
	}
	if o.logger != nil {
		for _, k := range domain.AllParameters() {
			if e.catalog.Rule(k).Kind == standards.RuleUnset {
				o.logger.LogWarn("threshold rule missing, parameter is unconstrained",
					ports.Field{Key: "parameter", Value: k.String()})
			}
		}
	}
	return e
}

// Evaluate never fails: missing data degrades to "not available" reasons.
//
// When uvOn is false the verdict is always unsafe and Reason is only the UV
// message; violations found before the UV check are kept in Suppressed.
func (e *Evaluator) Evaluate(params map[domain.ParameterKey]domain.Scalar, uvOn bool) domain.Verdict {
	var reasons []string
	var failed []domain.ParameterKey

	for _, k := range domain.AllParameters() {
		name := e.catalog.DisplayName(k)
		sc, ok := params[k]
		if !ok || !sc.Finite() {
			reasons = append(reasons, name+" not available")
			failed = append(failed, k)
			continue
		}
		if msg := e.check(k, name, sc.Value); msg != "" {
			reasons = append(reasons, msg)
			failed = append(failed, k)
		}
	}

	if !uvOn {
		return domain.Verdict{
			Safe:       false,
			Reason:     ReasonUVOff,
			Failed:     failed,
			Suppressed: reasons,
		}
	}

	for _, k := range microbiology {
		var v float64
		if sc, ok := params[k]; ok && sc.Finite() {
			v = sc.Value
		}
		if v > 0 {
			reasons = append(reasons, fmt.Sprintf("%s %s CFU/100mL detected (limit: 0)",
				e.catalog.DisplayName(k), domain.FormatNumber(v)))
		}
	}

	if len(reasons) == 0 {
		return domain.Verdict{Safe: true, Reason: ReasonAllClear}
	}
	return domain.Verdict{
		Safe:   false,
		Reason: strings.Join(reasons, reasonSep),
		Failed: failed,
	}
}

// check returns the violation message for one present value, or "".
func (e *Evaluator) check(k domain.ParameterKey, name string, v float64) string {
	rule := e.catalog.Rule(k)
	if rule.Contains(v) {
		return ""
	}
	val := domain.FormatNumber(v)
	switch rule.Kind {
	case standards.RuleQualitative:
		return fmt.Sprintf("%s detected (must be: %s)", name, rule.Expect)
	case standards.RuleAmbient:
		return fmt.Sprintf("%s %s°C outside ambient range ±3°C", name, val)
	case standards.RuleRange:
		return fmt.Sprintf("%s %s outside range %s-%s", name, val,
			domain.FormatNumber(rule.Min), domain.FormatNumber(rule.Max))
	case standards.RuleMax:
		return fmt.Sprintf("%s %s exceeds limit %s", name, val, domain.FormatNumber(rule.Max))
	case standards.RuleMin:
		return fmt.Sprintf("%s %s below limit %s", name, val, domain.FormatNumber(rule.Min))
	default:
		return ""
	}
}
