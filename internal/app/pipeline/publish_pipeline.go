package pipeline

import (
	"context"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// RunPublishPipeline drains the queue into the sink in batches. On
// cancellation it flushes what is still queued and returns.
func RunPublishPipeline(ctx context.Context, q ports.ReadingQueue, tr ports.Transformer, sink ports.Sink, pol ports.Policy, obs ports.Observability) {
	idle := pol.IdleSleep
	if idle <= 0 {
		idle = 5 * time.Millisecond
	}

	for {
		select {
		case <-ctx.Done():
			for publishBatch(q, tr, sink, pol, obs) > 0 {
			}
			return
		default:
		}

		if publishBatch(q, tr, sink, pol, obs) == 0 {
			select {
			case <-ctx.Done():
			case <-time.After(idle):
			}
		}
	}
}

// publishBatch returns the number of readings taken off the queue.
func publishBatch(q ports.ReadingQueue, tr ports.Transformer, sink ports.Sink, pol ports.Policy, obs ports.Observability) int {
	batch := q.DequeueBatch(pol.MaxBatchSize)
	if len(batch) == 0 {
		return 0
	}
	defer obs.SetGauge(ports.MetricQueueLength, float64(q.Len()))

	out := make([]*domain.Reading, 0, len(batch))
	for _, item := range batch {
		r, err := tr.Transform(item)
		if err != nil {
			obs.RecordDLQ(item, err)
			continue
		}
		r.TransformVer = tr.Version()
		out = append(out, r)
	}

	if len(out) == 0 {
		return len(batch)
	}

	start := time.Now()
	if err := sink.WriteBatch(out); err != nil {
		obs.IncCounter(ports.MetricSinkErrors, 1)
		obs.LogError("sink_write_failed", err,
			ports.Field{Key: "sink", Value: sink.Name()},
			ports.Field{Key: "readings", Value: len(out)})
		return len(batch)
	}
	obs.ObserveLatency(ports.MetricSinkLatency, time.Since(start).Seconds())
	obs.IncCounter(ports.MetricPublished, float64(len(out)))
	return len(batch)
}
