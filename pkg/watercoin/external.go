package watercoin

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/observability"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/queue"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/app/pipeline"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/brand"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/safety"
)

// ExternalPublisherConfig configures the publisher used by callers that
// bring their own packets (real sensors, replays, other generators).
type ExternalPublisherConfig struct {
	Policy        Policy
	Brands        []Brand
	Observability Observability
}

// applyDefaults fills in sane thresholds so callers only override what they need.
func (c *ExternalPublisherConfig) applyDefaults() {
	if c.Policy.MaxQueueLen == 0 {
		c.Policy.MaxQueueLen = 10_000
	}
	if c.Policy.MaxBatchSize == 0 {
		c.Policy.MaxBatchSize = 100
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 5 * time.Millisecond
	}
	if c.Policy.OnQueueFull == "" {
		c.Policy.OnQueueFull = "block"
	}
}

func (c *ExternalPublisherConfig) validate() error {
	if c.Policy.MaxQueueLen <= 0 {
		return fmt.Errorf("policy.max_queue_len must be > 0")
	}
	if c.Policy.MaxBatchSize <= 0 {
		return fmt.Errorf("policy.max_batch_size must be > 0")
	}
	return nil
}

// ExternalPublisher evaluates caller-supplied packets and delivers the
// resulting readings to a sink callback through the bounded queue.
type ExternalPublisher struct {
	engine *pipeline.Engine
	pub    *pipeline.Publisher
	seq    atomic.Uint64

	cancel    context.CancelFunc
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewExternalPublisher wires evaluator, brand identifier, queue and sink
// callback. The publish loop runs until Close.
func NewExternalPublisher(cfg *ExternalPublisherConfig, sink ReadingBatchSink) (*ExternalPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink callback is required")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	obs := cfg.Observability
	if obs == nil {
		obs = observability.NewPromObs(nil, nil)
	}
	q := queue.NewMemQueue(cfg.Policy.MaxQueueLen)

	ctx, cancel := context.WithCancel(context.Background())
	p := &ExternalPublisher{
		engine: pipeline.NewEngine(safety.NewEvaluator(safety.WithLogger(obs)), brand.NewIdentifier(cfg.Brands)),
		pub:    pipeline.NewPublisher(q, cfg.Policy, obs),
		cancel: cancel,
		doneCh: make(chan struct{}),
	}

	go func() {
		defer close(p.doneCh)
		pipeline.RunPublishPipeline(ctx, q, &noopTransformer{}, NewCallbackSink("external", sink), cfg.Policy, obs)
	}()
	return p, nil
}

// Publish evaluates p under uvOn, stamps the next sequence number and
// enqueues the reading according to policy.
func (p *ExternalPublisher) Publish(ctx context.Context, label Label, packet SensorPacket, uvOn bool) (Reading, error) {
	r := p.engine.Assess(label, packet.Clone(), uvOn)
	r.Seq = p.seq.Add(1)
	if !p.pub.Publish(ctx, r) {
		return r, ErrQueueFull
	}
	return r, nil
}

// Close flushes queued readings into the sink and waits for the publish
// loop to exit, respecting the provided context.
func (p *ExternalPublisher) Close(ctx context.Context) error {
	p.closeOnce.Do(p.cancel)

	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
