package pipeline

import (
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/brand"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/safety"
)

// Engine turns a packet into a Reading: verdict, headline and brand badge.
// It holds no mutable state and can be shared by every stream.
type Engine struct {
	eval   *safety.Evaluator
	brands *brand.Identifier
}

// NewEngine falls back to the standard catalogs for nil arguments.
func NewEngine(eval *safety.Evaluator, brands *brand.Identifier) *Engine {
	if eval == nil {
		eval = safety.NewEvaluator()
	}
	if brands == nil {
		brands = brand.NewIdentifier(nil)
	}
	return &Engine{eval: eval, brands: brands}
}

func (e *Engine) Evaluator() *safety.Evaluator { return e.eval }

func (e *Engine) Brands() *brand.Identifier { return e.brands }

// Assess evaluates p. Only a safe reading is matched against the brand
// catalog; unsafe water never carries a badge.
func (e *Engine) Assess(label domain.Label, p domain.SensorPacket, uvOn bool) domain.Reading {
	verdict := e.eval.Evaluate(p.Parameters, uvOn)
	r := domain.Reading{
		Label:    label,
		Packet:   p,
		Verdict:  verdict,
		Headline: safety.Headline(verdict),
	}
	if !verdict.Safe {
		return r
	}
	ph, okPH := p.Value(domain.PH)
	tds, okTDS := p.Value(domain.TDS)
	if okPH && okTDS {
		if b, ok := e.brands.Identify(ph, tds); ok {
			r.Brand = &b
		}
	}
	return r
}
