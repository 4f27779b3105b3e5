package pipeline

import (
	"context"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// RunTickLoop ticks every registered stream once per interval until ctx is
// cancelled.
func RunTickLoop(ctx context.Context, reg *Registry, interval time.Duration, pub *Publisher, obs ports.Observability) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			TickAll(ctx, reg, pub, obs)
		}
	}
}

// TickAll performs one tick on every stream and returns how many readings
// were queued.
func TickAll(ctx context.Context, reg *Registry, pub *Publisher, obs ports.Observability) int {
	queued := 0
	for _, s := range reg.List() {
		start := time.Now()
		r := s.Tick()
		obs.ObserveLatency(ports.MetricTickLatency, time.Since(start).Seconds())
		if pub.Publish(ctx, r) {
			queued++
		}
	}
	return queued
}
