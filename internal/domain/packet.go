package domain

import (
	"math"
	"time"
)

// Scalar is one measured quantity with its engineering unit.
type Scalar struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Status string  `json:"status,omitempty"`
}

// Finite reports whether the value can take part in a threshold check.
func (s Scalar) Finite() bool {
	return !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0)
}

// Metadata carries operational device details with no compliance meaning.
type Metadata struct {
	BatteryLevel    float64   `json:"batteryLevel"`
	SignalStrength  float64   `json:"signalStrength"`
	LastMaintenance time.Time `json:"lastMaintenance"`
	CalibrationDue  time.Time `json:"calibrationDue"`
}

// SensorPacket is one complete 23-parameter reading. Packets are treated as
// values: helpers return modified copies and never touch the receiver's map.
type SensorPacket struct {
	Timestamp  time.Time               `json:"timestamp"`
	DeviceID   string                  `json:"deviceId"`
	Location   string                  `json:"location"`
	Parameters map[ParameterKey]Scalar `json:"parameters"`
	Metadata   Metadata                `json:"metadata"`
}

// Value returns the parameter value, or false when absent.
func (p SensorPacket) Value(k ParameterKey) (float64, bool) {
	s, ok := p.Parameters[k]
	if !ok {
		return 0, false
	}
	return s.Value, true
}

// Clone returns a deep copy of the packet.
func (p SensorPacket) Clone() SensorPacket {
	out := p
	out.Parameters = make(map[ParameterKey]Scalar, len(p.Parameters))
	for k, v := range p.Parameters {
		out.Parameters[k] = v
	}
	return out
}

// WithValue returns a copy with parameter k set to v, keeping the existing unit.
func (p SensorPacket) WithValue(k ParameterKey, v float64) SensorPacket {
	out := p.Clone()
	s := out.Parameters[k]
	s.Value = v
	out.Parameters[k] = s
	return out
}

// Override is a partial live update for a device. Nil fields are left untouched.
type Override struct {
	DeviceID   string    `json:"deviceId"`
	PH         *float64  `json:"ph,omitempty"`
	TDS        *float64  `json:"tds,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Empty reports whether the override carries no values.
func (o Override) Empty() bool { return o.PH == nil && o.TDS == nil }

// Apply merges the override into a copy of p and stamps it with at.
func (o Override) Apply(p SensorPacket, at time.Time) SensorPacket {
	out := p.Clone()
	if o.PH != nil {
		s := out.Parameters[PH]
		s.Value = *o.PH
		s.Unit = ""
		out.Parameters[PH] = s
	}
	if o.TDS != nil {
		s := out.Parameters[TDS]
		s.Value = *o.TDS
		s.Unit = "ppm"
		out.Parameters[TDS] = s
	}
	out.Timestamp = at
	return out
}
