// Package synth builds synthetic 23-parameter sensor packets for a schedule
// label. Which packets end up unsafe is decided by the evaluator, not here:
// a "safe" slot still carries microbiology when the UV sterilizer is off.
package synth

import (
	"math"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

const (
	DefaultDeviceID = "WATER_SENSOR_001"
	DefaultLocation = "Depot Watercoin Makmur"

	maintenanceAge   = 7 * 24 * time.Hour
	calibrationAhead = 30 * 24 * time.Hour
)

// Synthesizer is not safe for concurrent use; callers serialize per stream.
type Synthesizer struct {
	rng      ports.Rand
	clock    ports.Clock
	deviceID string
	location string
}

type Option func(*Synthesizer)

// WithDevice sets the device id and location stamped on every packet.
func WithDevice(id, location string) Option {
	return func(s *Synthesizer) {
		if id != "" {
			s.deviceID = id
		}
		if location != "" {
			s.location = location
		}
	}
}

func WithClock(c ports.Clock) Option {
	return func(s *Synthesizer) {
		if c != nil {
			s.clock = c
		}
	}
}

// New returns a synthesizer drawing every value from rng.
func New(rng ports.Rand, opts ...Option) (*Synthesizer, error) {
	if rng == nil {
		return nil, ports.ErrNoRandSource
	}
	s := &Synthesizer{
		rng:      rng,
		clock:    ports.SystemClock{},
		deviceID: DefaultDeviceID,
		location: DefaultLocation,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Synthesize builds a packet for label. Unknown labels fall back to safe.
func (s *Synthesizer) Synthesize(label domain.Label, uvOn bool) domain.SensorPacket {
	if label == domain.LabelBad {
		p, _ := s.Violate(s.Safe(uvOn), uvOn)
		return p
	}
	return s.Safe(uvOn)
}

// Safe builds a packet whose physical and chemical values sit comfortably
// inside the regulatory limits.
func (s *Synthesizer) Safe(uvOn bool) domain.SensorPacket {
	now := s.clock.Now()
	p := domain.SensorPacket{
		Timestamp:  now,
		DeviceID:   s.deviceID,
		Location:   s.location,
		Parameters: make(map[domain.ParameterKey]domain.Scalar, domain.NumParameters),
		Metadata: domain.Metadata{
			BatteryLevel:    math.Round(span{50, 100, 0}.draw(s.rng)),
			SignalStrength:  -math.Round(span{30, 80, 0}.draw(s.rng)),
			LastMaintenance: now.Add(-maintenanceAge),
			CalibrationDue:  now.Add(calibrationAhead),
		},
	}

	for _, k := range domain.AllParameters() {
		prof := profiles[k]
		var v float64
		switch k {
		case domain.Odour, domain.Taste, domain.TotalColiform, domain.EColi:
		default:
			v = prof.safe.draw(s.rng)
		}
		p.Parameters[k] = domain.Scalar{Value: v, Unit: prof.unit}
	}

	if !uvOn {
		ecoli := ecoliBaselineUVOff.draw(s.rng)
		floor := math.Max(coliformBaselineUVOff.lo, ecoli)
		coliform := span{floor, coliformBaselineUVOff.hi, 0}.draw(s.rng)
		p.Parameters[domain.EColi] = domain.Scalar{Value: ecoli, Unit: profiles[domain.EColi].unit}
		p.Parameters[domain.TotalColiform] = domain.Scalar{Value: coliform, Unit: profiles[domain.TotalColiform].unit}
	}
	return p
}

// Violate returns a copy of base with 1-3 parameters pushed beyond their
// limits, plus odour/taste failures at fixed probabilities. The returned keys
// list every parameter that was changed, in injection order.
func (s *Synthesizer) Violate(base domain.SensorPacket, uvOn bool) (domain.SensorPacket, []domain.ParameterKey) {
	out := base.Clone()
	count := s.rng.IntN(maxViolations) + 1
	injected := make([]domain.ParameterKey, 0, count+2)

	for i := 0; i < count; i++ {
		k := violatable[s.rng.IntN(len(violatable))]
		v := s.violation(k, uvOn)
		if prev, ok := base.Value(k); ok && prev == v {
			// Only microbiology baselines can collide with a violation draw.
			v++
		}
		sc := out.Parameters[k]
		sc.Value = v
		if sc.Unit == "" {
			sc.Unit = profiles[k].unit
		}
		out.Parameters[k] = sc
		injected = append(injected, k)
	}

	if s.rng.Float64() < odourFailProbability {
		out.Parameters[domain.Odour] = domain.Scalar{Value: 1, Unit: profiles[domain.Odour].unit}
		injected = append(injected, domain.Odour)
	}
	if s.rng.Float64() < tasteFailProbability {
		out.Parameters[domain.Taste] = domain.Scalar{Value: 1, Unit: profiles[domain.Taste].unit}
		injected = append(injected, domain.Taste)
	}
	return out, injected
}

func (s *Synthesizer) violation(k domain.ParameterKey, uvOn bool) float64 {
	switch k {
	case domain.PH:
		if s.rng.IntN(2) == 0 {
			return phAcidic.draw(s.rng)
		}
		return phAlkaline.draw(s.rng)
	case domain.EColi:
		if uvOn {
			return ecoliViolationUVOn.draw(s.rng)
		}
		return ecoliViolationUVOff.draw(s.rng)
	case domain.TotalColiform:
		if uvOn {
			return coliformViolationUVOn.draw(s.rng)
		}
		return coliformViolationUVOff.draw(s.rng)
	default:
		return profiles[k].bad.draw(s.rng)
	}
}
