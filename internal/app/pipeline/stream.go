package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/schedule"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/synth"
)

var (
	// ErrNoReading is returned when a stream has not produced its first tick yet.
	ErrNoReading = errors.New("watercoin: stream has no reading yet")
	// ErrUnknownDevice is returned when no stream is registered for a device id.
	ErrUnknownDevice = errors.New("watercoin: unknown device")
)

type StreamConfig struct {
	DeviceID string
	Location string
	UVOn     bool
	Schedule schedule.Config
}

// Stream is one device's telemetry: its own schedule, synthesizer and
// random source. Ticks and overrides on the same stream are serialized.
type Stream struct {
	id       string
	location string
	engine   *Engine
	clock    ports.Clock
	uv       atomic.Bool

	mu    sync.Mutex
	gen   *schedule.Generator
	syn   *synth.Synthesizer
	seq   uint64
	last  *domain.Reading
	ticks uint64
}

// NewStream wires a stream around rng, which must not be shared with any
// other stream.
func NewStream(cfg StreamConfig, engine *Engine, rng ports.Rand, clock ports.Clock) (*Stream, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("stream device id is required")
	}
	if rng == nil {
		return nil, ports.ErrNoRandSource
	}
	if engine == nil {
		engine = NewEngine(nil, nil)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	gen, err := schedule.NewGenerator(cfg.Schedule, rng, clock)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", cfg.DeviceID, err)
	}
	syn, err := synth.New(rng, synth.WithClock(clock), synth.WithDevice(cfg.DeviceID, cfg.Location))
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", cfg.DeviceID, err)
	}

	s := &Stream{
		id:       cfg.DeviceID,
		location: cfg.Location,
		engine:   engine,
		clock:    clock,
		gen:      gen,
		syn:      syn,
	}
	s.uv.Store(cfg.UVOn)
	return s, nil
}

func (s *Stream) ID() string       { return s.id }
func (s *Stream) Location() string { return s.location }
func (s *Stream) UV() bool         { return s.uv.Load() }

// Tick draws the next label, synthesizes a packet and evaluates it.
func (s *Stream) Tick() domain.Reading {
	uvOn := s.uv.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	label := s.gen.Next()
	r := s.engine.Assess(label, s.syn.Synthesize(label, uvOn), uvOn)
	s.ticks++
	return s.storeLocked(r)
}

// ApplyOverride merges live ph/tds values into the latest packet and
// re-evaluates it under the current UV state.
func (s *Stream) ApplyOverride(o domain.Override) (domain.Reading, error) {
	uvOn := s.uv.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return domain.Reading{}, ErrNoReading
	}
	at := o.ReceivedAt
	if at.IsZero() {
		at = s.clock.Now()
	}
	p := o.Apply(s.last.Packet, at)
	return s.storeLocked(s.engine.Assess(s.last.Label, p, uvOn)), nil
}

// SetUV flips the sterilizer flag. When a reading exists it is re-evaluated
// and returned with ok set.
func (s *Stream) SetUV(on bool) (r domain.Reading, ok bool) {
	s.uv.Store(on)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return domain.Reading{}, false
	}
	return s.storeLocked(s.engine.Assess(s.last.Label, s.last.Packet, on)), true
}

// Last returns the most recent reading.
func (s *Stream) Last() (domain.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return domain.Reading{}, false
	}
	return *s.last, true
}

// Schedule returns a copy of the stream's schedule state.
func (s *Stream) Schedule() schedule.State { return s.gen.Snapshot() }

// Ticks is the number of synthesized packets so far.
func (s *Stream) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func (s *Stream) storeLocked(r domain.Reading) domain.Reading {
	s.seq++
	r.Seq = s.seq
	stored := r
	s.last = &stored
	return r
}
