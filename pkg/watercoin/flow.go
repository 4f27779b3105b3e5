package watercoin

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Flow builds a Runtime in three steps: Conf loads the configuration,
// StreamIN shapes the device streams (which tanks exist, how they are seeded
// and scheduled, where live overrides come from) and StreamOUT decides what
// happens to each assessed reading.
//
//	rt, err := watercoin.Conf("data/config.yaml").
//		StreamIN(watercoin.StreamInDevice("TANK_A", "Gudang", true), watercoin.StreamInSeed(7)).
//		StreamOUT(watercoin.StreamOutCallback("alerts", notify))
//
// Option errors are collected and reported by StreamOUT.
type Flow struct {
	cfg  *Config
	opts []RuntimeOption
	errs []error
}

// FlowOption adjusts a Flow right after its configuration is loaded.
type FlowOption func(*Flow)

// StreamInOption configures the device streams.
type StreamInOption func(*Flow)

// StreamOutOption configures assessment output: brands, sink and transformer.
type StreamOutOption func(*Flow)

// Conf loads a YAML configuration. A load error is kept and surfaces from
// StreamOUT, so the chain can be written in one expression.
func Conf(path string, opts ...FlowOption) *Flow {
	cfg, err := LoadConfig(path)
	if err != nil {
		return &Flow{errs: []error{fmt.Errorf("load config: %w", err)}}
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig starts a Flow from an in-memory Config. The Config is
// modified in place by StreamIN options.
func ConfFromConfig(cfg *Config, opts ...FlowOption) *Flow {
	f := &Flow{cfg: cfg}
	if cfg == nil {
		f.errs = append(f.errs, errors.New("config is required"))
	}
	f.apply(opts)
	return f
}

// Config is the configuration the Runtime will be built from.
func (f *Flow) Config() *Config { return f.cfg }

// Err reports the option errors collected so far.
func (f *Flow) Err() error { return errors.Join(f.errs...) }

// Options appends raw RuntimeOption values.
func (f *Flow) Options(opts ...RuntimeOption) *Flow {
	f.opts = append(f.opts, opts...)
	return f
}

func (f *Flow) StreamIN(opts ...StreamInOption) *Flow {
	for _, opt := range opts {
		if opt != nil && f.cfg != nil {
			opt(f)
		}
	}
	return f
}

// StreamOUT applies output options, validates the result and builds the Runtime.
func (f *Flow) StreamOUT(opts ...StreamOutOption) (*Runtime, error) {
	for _, opt := range opts {
		if opt != nil && f.cfg != nil {
			opt(f)
		}
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return NewRuntime(f.cfg, f.opts...)
}

// Run builds the Runtime and blocks until ctx is cancelled.
func (f *Flow) Run(ctx context.Context, opts ...StreamOutOption) error {
	rt, err := f.StreamOUT(opts...)
	if err != nil {
		return err
	}
	return rt.Run(ctx)
}

func (f *Flow) apply(opts []FlowOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
}

func (f *Flow) fail(format string, args ...any) {
	f.errs = append(f.errs, fmt.Errorf(format, args...))
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return func(f *Flow) { f.opts = append(f.opts, opts...) }
}

// StreamInDevice adds a device stream, or updates the location and UV state
// of an already configured one.
func StreamInDevice(id, location string, uvOn bool) StreamInOption {
	return func(f *Flow) {
		if id == "" {
			f.fail("stream in: device id is required")
			return
		}
		uv := uvOn
		for i := range f.cfg.Devices {
			if f.cfg.Devices[i].ID == id {
				f.cfg.Devices[i].Location = location
				f.cfg.Devices[i].UVOn = &uv
				return
			}
		}
		f.cfg.Devices = append(f.cfg.Devices, DeviceConfig{ID: id, Location: location, UVOn: &uv})
	}
}

// StreamInSeed makes every stream reproducible; 0 keeps entropy seeding.
func StreamInSeed(seed uint64) StreamInOption {
	return func(f *Flow) { f.cfg.Engine.Seed = seed }
}

// StreamInSchedule resizes the safe/bad window shared by all streams.
func StreamInSchedule(sc ScheduleConfig) StreamInOption {
	return func(f *Flow) {
		sc.ApplyDefaults()
		if err := sc.Validate(); err != nil {
			f.fail("stream in: schedule: %w", err)
			return
		}
		f.cfg.Engine.Config = sc
	}
}

func StreamInTickInterval(d time.Duration) StreamInOption {
	return func(f *Flow) {
		if d <= 0 {
			f.fail("stream in: tick interval must be > 0, got %s", d)
			return
		}
		f.cfg.Engine.TickInterval = d
	}
}

// StreamInClock drives timestamps and window expiry, e.g. for replayable tests.
func StreamInClock(c Clock) StreamInOption {
	return func(f *Flow) {
		if c != nil {
			f.opts = append(f.opts, WithRuntimeClock(c))
		}
	}
}

// StreamInCollector injects a live ph/tds override source.
func StreamInCollector(col Collector) StreamInOption {
	return func(f *Flow) {
		if col != nil {
			f.opts = append(f.opts, WithCollector(col))
		}
	}
}

// StreamInRand swaps the per-device random sources.
func StreamInRand(fn RandFactory) StreamInOption {
	return func(f *Flow) {
		if fn != nil {
			f.opts = append(f.opts, WithRandFactory(fn))
		}
	}
}

func StreamInQueue(q ReadingQueue) StreamInOption {
	return func(f *Flow) {
		if q != nil {
			f.opts = append(f.opts, WithReadingQueue(q))
		}
	}
}

func StreamInObservability(obs Observability) StreamInOption {
	return func(f *Flow) {
		if obs != nil {
			f.opts = append(f.opts, WithObservability(obs))
		}
	}
}

// StreamOutBrands replaces the catalog safe readings are badged from.
func StreamOutBrands(brands []Brand) StreamOutOption {
	return func(f *Flow) {
		if len(brands) == 0 {
			f.fail("stream out: brand catalog is empty")
			return
		}
		f.opts = append(f.opts, WithRuntimeBrands(brands))
	}
}

// StreamOutTimescale writes readings to a TimescaleDB hypertable.
func StreamOutTimescale(connString, table string) StreamOutOption {
	return func(f *Flow) {
		f.cfg.Sink = SinkConfig{Kind: SinkTimescale, ConnString: connString, Table: table}
	}
}

func StreamOutSink(s Sink) StreamOutOption {
	return func(f *Flow) {
		if s != nil {
			f.opts = append(f.opts, WithSink(s))
		}
	}
}

// StreamOutCallback hands each flushed batch of readings to fn.
func StreamOutCallback(name string, fn ReadingBatchSink) StreamOutOption {
	return func(f *Flow) {
		if fn == nil {
			f.fail("stream out: callback %q is nil", name)
			return
		}
		f.opts = append(f.opts, WithSink(NewCallbackSink(name, fn)))
	}
}

func StreamOutTransformer(tr Transformer) StreamOutOption {
	return func(f *Flow) {
		if tr != nil {
			f.opts = append(f.opts, WithTransformer(tr))
		}
	}
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return func(f *Flow) {
		if obs != nil {
			f.opts = append(f.opts, WithObservability(obs))
		}
	}
}
