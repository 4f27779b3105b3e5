package watercoin

import (
	"fmt"
	"sync"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/randsrc"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/app/pipeline"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/brand"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/safety"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/schedule"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/synth"
)

// EngineOption customizes a standalone Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	rng      ports.Rand
	seed     uint64
	seeded   bool
	clock    ports.Clock
	deviceID string
	location string
	schedule schedule.Config
	brands   []Brand
	logger   ports.Logger
}

// WithSeed makes the engine reproducible. Without it the engine seeds from
// crypto/rand.
func WithSeed(seed uint64) EngineOption {
	return func(o *engineOptions) { o.seed, o.seeded = seed, true }
}

// WithRand injects a random source. It takes precedence over WithSeed.
func WithRand(r Rand) EngineOption {
	return func(o *engineOptions) { o.rng = r }
}

func WithClock(c Clock) EngineOption {
	return func(o *engineOptions) { o.clock = c }
}

// WithDevice sets the identity stamped on synthesized packets.
func WithDevice(id, location string) EngineOption {
	return func(o *engineOptions) { o.deviceID, o.location = id, location }
}

func WithSchedule(cfg ScheduleConfig) EngineOption {
	return func(o *engineOptions) { o.schedule = cfg }
}

// WithBrands replaces the reference brand catalog. Order is match priority.
func WithBrands(brands []Brand) EngineOption {
	return func(o *engineOptions) { o.brands = brands }
}

// WithEngineLogger receives construction warnings from the evaluator.
func WithEngineLogger(l ports.Logger) EngineOption {
	return func(o *engineOptions) { o.logger = l }
}

// Engine is one telemetry stream without a runtime: schedule, synthesizer,
// evaluator and brand identifier. Evaluate, Identify and Assess are pure;
// NextPacket and Synthesize draw from the engine's random source and are
// serialized internally.
type Engine struct {
	mu   sync.Mutex
	gen  *schedule.Generator
	syn  *synth.Synthesizer
	core *pipeline.Engine
}

func NewEngine(opts ...EngineOption) (*Engine, error) {
	o := engineOptions{schedule: schedule.DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	rng := o.rng
	if rng == nil {
		seed := o.seed
		if !o.seeded {
			var err error
			if seed, err = randsrc.NewSeed(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrNoRandSource, err)
			}
		}
		rng = randsrc.New(seed)
	}
	clock := o.clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	gen, err := schedule.NewGenerator(o.schedule, rng, clock)
	if err != nil {
		return nil, err
	}
	synOpts := []synth.Option{synth.WithClock(clock)}
	if o.deviceID != "" {
		synOpts = append(synOpts, synth.WithDevice(o.deviceID, o.location))
	}
	syn, err := synth.New(rng, synOpts...)
	if err != nil {
		return nil, err
	}

	var evalOpts []safety.Option
	if o.logger != nil {
		evalOpts = append(evalOpts, safety.WithLogger(o.logger))
	}
	core := pipeline.NewEngine(safety.NewEvaluator(evalOpts...), brand.NewIdentifier(o.brands))

	return &Engine{gen: gen, syn: syn, core: core}, nil
}

// NextPacket advances the schedule and synthesizes a packet for the drawn label.
func (e *Engine) NextPacket(uvOn bool) (Label, SensorPacket) {
	e.mu.Lock()
	defer e.mu.Unlock()
	label := e.gen.Next()
	return label, e.syn.Synthesize(label, uvOn)
}

// Synthesize builds a packet for label without touching the schedule.
func (e *Engine) Synthesize(label Label, uvOn bool) SensorPacket {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syn.Synthesize(label, uvOn)
}

func (e *Engine) Evaluate(params map[ParameterKey]Scalar, uvOn bool) Verdict {
	return e.core.Evaluator().Evaluate(params, uvOn)
}

// Identify returns the first catalog brand whose ranges contain ph and tds.
func (e *Engine) Identify(ph, tds float64) (Brand, bool) {
	return e.core.Brands().Identify(ph, tds)
}

// Assess evaluates p and, when it is safe, identifies its brand. The returned
// Reading carries no sequence number.
func (e *Engine) Assess(label Label, p SensorPacket, uvOn bool) Reading {
	return e.core.Assess(label, p, uvOn)
}

// Next runs one full cycle: schedule, synthesize and assess.
func (e *Engine) Next(uvOn bool) Reading {
	label, p := e.NextPacket(uvOn)
	return e.Assess(label, p, uvOn)
}

func (e *Engine) Schedule() ScheduleState { return e.gen.Snapshot() }

// Brands returns the reference catalog in match order.
func (e *Engine) Brands() []Brand { return e.core.Brands().Catalog() }

// Verdict reasons and status banners callers may compare against.
const (
	ReasonAllClear       = safety.ReasonAllClear
	ReasonUVOff          = safety.ReasonUVOff
	HeadlineSafe         = safety.HeadlineSafe
	HeadlineMicrobiology = safety.HeadlineMicrobiology
	HeadlinePoor         = safety.HeadlinePoor
)

// Headline maps a verdict to its status banner.
func Headline(v Verdict) string { return safety.Headline(v) }
