package pipeline

import (
	"context"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// RunOverrideLoop starts col and merges each override into its device
// stream until ctx is cancelled. The collector is stopped by the caller.
func RunOverrideLoop(ctx context.Context, col ports.Collector, reg *Registry, pub *Publisher, buffer int, obs ports.Observability) error {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan domain.Override, buffer)

	if err := col.Start(ch); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case o := <-ch:
				ApplyOverride(ctx, reg, pub, o, obs)
			}
		}
	}()

	return nil
}

// ApplyOverride routes one override to its stream and publishes the
// re-evaluated reading.
func ApplyOverride(ctx context.Context, reg *Registry, pub *Publisher, o domain.Override, obs ports.Observability) (domain.Reading, error) {
	if o.Empty() {
		return domain.Reading{}, nil
	}
	s, ok := reg.Get(o.DeviceID)
	if !ok {
		obs.LogWarn("override_unknown_device", ports.Field{Key: "device_id", Value: o.DeviceID})
		return domain.Reading{}, ErrUnknownDevice
	}
	r, err := s.ApplyOverride(o)
	if err != nil {
		obs.LogWarn("override_skipped",
			ports.Field{Key: "device_id", Value: o.DeviceID},
			ports.Field{Key: "reason", Value: err.Error()})
		return domain.Reading{}, err
	}
	obs.IncCounter(ports.MetricOverrides, 1)
	pub.Publish(ctx, r)
	return r, nil
}
