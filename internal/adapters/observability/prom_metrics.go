package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

type Field = ports.Field

// PromObs logs through zap and keeps Prometheus collectors keyed by name.
// Unknown metric names are ignored.
type PromObs struct {
	log *zap.Logger

	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer

	readings *prometheus.CounterVec
	brands   *prometheus.CounterVec
}

// NewPromObs registers its collectors on reg. A nil reg leaves them
// unregistered, a nil logger discards log output.
func NewPromObs(reg prometheus.Registerer, logger *zap.Logger) *PromObs {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}

	return &PromObs{
		log: logger,
		counters: map[string]prometheus.Counter{
			ports.MetricPublished:  counter(ports.MetricPublished, "Readings successfully written to the sink."),
			ports.MetricDLQ:        counter(ports.MetricDLQ, "Readings rejected by the transformer."),
			ports.MetricQueueDrops: counter(ports.MetricQueueDrops, "Readings lost due to queue backpressure policies."),
			ports.MetricOverrides:  counter(ports.MetricOverrides, "Live ph/tds overrides merged into a device stream."),
			ports.MetricSinkErrors: counter(ports.MetricSinkErrors, "Failed sink batch writes."),
		},
		gauges: map[string]prometheus.Gauge{
			ports.MetricQueueLength: gauge(ports.MetricQueueLength, "Readings buffered in the in-memory queue."),
			ports.MetricDevices:     gauge(ports.MetricDevices, "Registered device streams."),
		},
		histos: map[string]prometheus.Observer{
			ports.MetricSinkLatency: f.NewHistogram(prometheus.HistogramOpts{
				Name:    ports.MetricSinkLatency,
				Help:    "Time spent in one sink batch write.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			}),
			ports.MetricTickLatency: f.NewHistogram(prometheus.HistogramOpts{
				Name:    ports.MetricTickLatency,
				Help:    "Time to schedule, synthesize and evaluate one reading.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			}),
		},
		readings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watercoin_readings_total",
			Help: "Evaluated readings by device, schedule label and verdict.",
		}, []string{"device", "label", "safe"}),
		brands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watercoin_brand_matches_total",
			Help: "Safe readings whose ph/tds matched a reference brand.",
		}, []string{"brand"}),
	}
}

// Logger exposes the underlying zap logger for HTTP middleware.
func (p *PromObs) Logger() *zap.Logger { return p.log }

func (p *PromObs) LogInfo(msg string, fields ...Field) {
	p.log.Info(msg, zapFields(fields)...)
}

func (p *PromObs) LogWarn(msg string, fields ...Field) {
	p.log.Warn(msg, zapFields(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...Field) {
	p.log.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordReading(r *domain.Reading) {
	if r == nil {
		return
	}
	p.readings.WithLabelValues(r.Packet.DeviceID, string(r.Label), strconv.FormatBool(r.Verdict.Safe)).Inc()
	if r.Brand != nil {
		p.brands.WithLabelValues(r.Brand.Name).Inc()
	}
}

func (p *PromObs) RecordDLQ(r *domain.Reading, err error) {
	p.IncCounter(ports.MetricDLQ, 1)
	fields := []zap.Field{zap.Error(err)}
	if r != nil {
		fields = append(fields, zap.String("device_id", r.Packet.DeviceID), zap.Uint64("seq", r.Seq))
	}
	p.log.Warn("reading_dead_lettered", fields...)
}

var _ ports.Observability = (*PromObs)(nil)
