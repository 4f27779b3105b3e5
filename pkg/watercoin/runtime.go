package watercoin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/httpapi"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/observability"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/opcua"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/queue"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/randsrc"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/sink"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/app/config"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/app/pipeline"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/brand"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/safety"
)

var (
	// ErrQueueFull indicates the queue rejected a reading according to policy.
	ErrQueueFull = errors.New("watercoin: queue full")
	// ErrUnknownDevice is returned for a device id with no configured stream.
	ErrUnknownDevice = pipeline.ErrUnknownDevice
	// ErrNoReading is returned when a stream has not ticked yet.
	ErrNoReading = pipeline.ErrNoReading
)

// RandFactory hands each device stream its own random source.
type RandFactory func(deviceID string) (Rand, error)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	collector     Collector
	sink          Sink
	transformer   Transformer
	queue         ReadingQueue
	observability Observability
	randFactory   RandFactory
	clock         Clock
	brands        []Brand
	logger        *zap.Logger
}

// WithCollector injects a custom live override source instead of OPC UA.
func WithCollector(col Collector) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.collector = col
	}
}

// WithSink injects a custom sink so readings can be sent to any database or API.
func WithSink(s Sink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.sink = s
	}
}

// WithTransformer overrides the default no-op transformer.
func WithTransformer(t Transformer) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.transformer = t
	}
}

// WithReadingQueue injects a custom queue implementation.
func WithReadingQueue(q ReadingQueue) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.queue = q
	}
}

// WithObservability plugs in a custom logs/metrics backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithRandFactory replaces seed derivation, e.g. for scripted test sources.
func WithRandFactory(f RandFactory) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.randFactory = f
	}
}

func WithRuntimeClock(c Clock) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.clock = c
	}
}

// WithRuntimeBrands replaces the brand catalog used to badge safe readings
// and served by the reference endpoint. Order is match priority.
func WithRuntimeBrands(brands []Brand) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.brands = brands
	}
}

// WithLogger replaces the zap logger built from cfg.Logging.
func WithLogger(l *zap.Logger) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.logger = l
	}
}

// Runtime ticks every configured device stream, publishes readings through
// the bounded queue to the sink, merges live overrides and serves the HTTP API.
type Runtime struct {
	cfg         *Config
	policy      ports.Policy
	log         *zap.Logger
	obs         ports.Observability
	queue       ports.ReadingQueue
	collector   ports.Collector
	transformer ports.Transformer
	sink        ports.Sink
	db          *sql.DB

	registry *pipeline.Registry
	pub      *pipeline.Publisher
	handler  http.Handler

	mu          sync.Mutex
	started     bool
	cancel      context.CancelFunc
	publishDone chan struct{}
	loops       sync.WaitGroup
	httpSrv     *http.Server
	httpAddr    net.Addr
}

// NewRuntime bootstraps the default adapters (in-memory queue, Prometheus
// observability, Timescale or discard sink, OPC UA collector when enabled).
// RuntimeOption values override any of them.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	logger := overrides.logger
	if logger == nil {
		var err error
		logger, err = observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
	}

	promReg := prometheus.NewRegistry()
	obs := overrides.observability
	if obs == nil {
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		obs = observability.NewPromObs(promReg, logger)
	}

	q := overrides.queue
	if q == nil {
		q = queue.NewMemQueue(cfg.Policy.MaxQueueLen)
	}

	clock := overrides.clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	factory := overrides.randFactory
	if factory == nil {
		base := randsrc.NewFactory(cfg.Engine.Seed)
		factory = func(id string) (Rand, error) { return base(id) }
	}

	identifier := brand.NewIdentifier(overrides.brands)
	engine := pipeline.NewEngine(safety.NewEvaluator(safety.WithLogger(obs)), identifier)
	registry := pipeline.NewRegistry()
	for _, d := range cfg.Devices {
		rng, err := factory(d.ID)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", d.ID, err)
		}
		st, err := pipeline.NewStream(pipeline.StreamConfig{
			DeviceID: d.ID,
			Location: d.Location,
			UVOn:     d.UV(),
			Schedule: cfg.Engine.Config,
		}, engine, rng, clock)
		if err != nil {
			return nil, err
		}
		if err := registry.Add(st); err != nil {
			return nil, err
		}
	}

	col := overrides.collector
	if col == nil && cfg.OPCUA.Enabled {
		c, err := opcua.NewCollector(cfg.OPCUA.Config, obs)
		if err != nil {
			return nil, err
		}
		col = c
	}

	var (
		db  *sql.DB
		snk ports.Sink
	)
	switch {
	case overrides.sink != nil:
		snk = overrides.sink
	case cfg.Sink.Kind == config.SinkTimescale:
		var err error
		db, err = sql.Open("postgres", cfg.Sink.ConnString)
		if err != nil {
			return nil, err
		}
		snk = sink.NewTimescaleSink(db, cfg.Sink.Table)
	default:
		snk = discardSink{}
	}

	tr := overrides.transformer
	if tr == nil {
		tr = &noopTransformer{}
	}

	pub := pipeline.NewPublisher(q, cfg.Policy, obs)
	handler := httpapi.NewServer(httpapi.Deps{
		Registry:       registry,
		Publisher:      pub,
		Observability:  obs,
		Gatherer:       promReg,
		Logger:         logger,
		Brands:         identifier.Catalog(),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}).Handler()

	return &Runtime{
		cfg:         cfg,
		policy:      cfg.Policy,
		log:         logger,
		obs:         obs,
		queue:       q,
		collector:   col,
		transformer: tr,
		sink:        snk,
		db:          db,
		registry:    registry,
		pub:         pub,
		handler:     handler,
	}, nil
}

// Start launches the tick, override and publish loops plus the HTTP server.
// It returns immediately; call Run to block on a context instead.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return fmt.Errorf("runtime already started")
	}

	ln, err := net.Listen("tcp", r.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", r.cfg.HTTP.Addr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if r.collector != nil {
		if err := pipeline.RunOverrideLoop(ctx, r.collector, r.registry, r.pub, 0, r.obs); err != nil {
			cancel()
			_ = ln.Close()
			return fmt.Errorf("start collector: %w", err)
		}
	}

	r.cancel = cancel
	r.started = true
	r.obs.SetGauge(ports.MetricDevices, float64(r.registry.Len()))

	r.loops.Add(2)
	go func() {
		defer r.loops.Done()
		pipeline.TickAll(ctx, r.registry, r.pub, r.obs)
		pipeline.RunTickLoop(ctx, r.registry, r.cfg.Engine.TickInterval, r.pub, r.obs)
	}()
	go func() {
		defer r.loops.Done()
		r.recordGauges(ctx, time.Second)
	}()

	r.publishDone = make(chan struct{})
	go func() {
		pipeline.RunPublishPipeline(ctx, r.queue, r.transformer, r.sink, r.policy, r.obs)
		close(r.publishDone)
	}()

	r.httpSrv = &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	r.httpAddr = ln.Addr()
	go func() {
		if err := r.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.obs.LogError("http_server_exited", err)
		}
	}()

	r.obs.LogInfo("runtime_started",
		ports.Field{Key: "devices", Value: r.registry.Len()},
		ports.Field{Key: "sink", Value: r.sink.Name()},
		ports.Field{Key: "http_addr", Value: r.httpAddr.String()})
	return nil
}

// Run starts the runtime and blocks until the provided context is cancelled.
// Upon cancellation it attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown stops the intake side first (collector and HTTP server, waiting
// for in-flight requests), then stops the loops, drains the queue into the
// sink and closes the DB connection.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.collector != nil {
		if err := r.collector.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	r.mu.Lock()
	cancel, done, srv := r.cancel, r.publishDone, r.httpSrv
	r.cancel = nil
	r.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if cancel != nil {
		cancel()
		r.loops.Wait()
		select {
		case <-done:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("drain queue: %w", ctx.Err()))
		}
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	_ = r.log.Sync()
	return errors.Join(errs...)
}

// Handler serves the HTTP API; it is usable without Start.
func (r *Runtime) Handler() http.Handler { return r.handler }

// HTTPAddr is the bound listener address after Start.
func (r *Runtime) HTTPAddr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.httpAddr == nil {
		return ""
	}
	return r.httpAddr.String()
}

// Devices lists the configured device ids in sorted order.
func (r *Runtime) Devices() []string {
	streams := r.registry.List()
	out := make([]string, len(streams))
	for i, s := range streams {
		out[i] = s.ID()
	}
	return out
}

// Latest returns the most recent reading for a device.
func (r *Runtime) Latest(deviceID string) (Reading, bool) {
	s, ok := r.registry.Get(deviceID)
	if !ok {
		return Reading{}, false
	}
	return s.Last()
}

// Tick advances every stream once, outside the ticker.
func (r *Runtime) Tick(ctx context.Context) int {
	return pipeline.TickAll(ctx, r.registry, r.pub, r.obs)
}

// SetUV switches a device's sterilizer and re-publishes its latest reading.
func (r *Runtime) SetUV(ctx context.Context, deviceID string, on bool) (Reading, error) {
	s, ok := r.registry.Get(deviceID)
	if !ok {
		return Reading{}, ErrUnknownDevice
	}
	reading, has := s.SetUV(on)
	if !has {
		return Reading{}, ErrNoReading
	}
	r.pub.Publish(ctx, reading)
	return reading, nil
}

// ApplyOverride merges live ph/tds values into a device's latest packet.
func (r *Runtime) ApplyOverride(ctx context.Context, o Override) (Reading, error) {
	return pipeline.ApplyOverride(ctx, r.registry, r.pub, o, r.obs)
}

func (r *Runtime) recordGauges(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.obs.SetGauge(ports.MetricQueueLength, float64(r.queue.Len()))
			r.obs.SetGauge(ports.MetricDevices, float64(r.registry.Len()))
		}
	}
}

type noopTransformer struct{}

func (n *noopTransformer) Transform(r *domain.Reading) (*domain.Reading, error) { return r, nil }
func (n *noopTransformer) Version() uint16                                      { return 1 }
