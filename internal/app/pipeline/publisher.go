package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// Publisher records every reading and hands it to the bounded queue under
// the configured backpressure policy.
type Publisher struct {
	q   ports.ReadingQueue
	pol ports.Policy
	obs ports.Observability
}

func NewPublisher(q ports.ReadingQueue, pol ports.Policy, obs ports.Observability) *Publisher {
	return &Publisher{q: q, pol: pol, obs: obs}
}

// Publish reports whether the reading was queued.
func (p *Publisher) Publish(ctx context.Context, r domain.Reading) bool {
	p.obs.RecordReading(&r)
	if p.q == nil {
		return true
	}
	ok := enqueueWithPolicy(ctx, p.q, &r, p.pol, p.obs)
	if !ok {
		p.obs.IncCounter(ports.MetricQueueDrops, 1)
	}
	p.obs.SetGauge(ports.MetricQueueLength, float64(p.q.Len()))
	return ok
}

func enqueueWithPolicy(ctx context.Context, q ports.ReadingQueue, r *domain.Reading, pol ports.Policy, obs ports.Observability) bool {
	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = 5 * time.Millisecond
	}

	for {
		if ok := q.Enqueue(r); ok {
			return true
		}

		switch pol.OnQueueFull {
		case "block":
			select {
			case <-ctx.Done():
				return false
			case <-time.After(sleep):
			}
		case "drop", "reject":
			obs.LogError("queue_full_drop", fmt.Errorf("queue length exceeded capacity %d", pol.MaxQueueLen),
				ports.Field{Key: "device_id", Value: r.Packet.DeviceID})
			return false
		default:
			obs.LogError("queue_policy_invalid", fmt.Errorf("policy=%s", pol.OnQueueFull))
			return false
		}
	}
}
