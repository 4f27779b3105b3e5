package watercoin

import (
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/schedule"
)

// Data model shared by the engine, the runtime and custom adapters.
type (
	ParameterKey = domain.ParameterKey
	Category     = domain.Category
	Scalar       = domain.Scalar
	Metadata     = domain.Metadata
	SensorPacket = domain.SensorPacket
	Label        = domain.Label
	Verdict      = domain.Verdict
	Brand        = domain.Brand
	Reading      = domain.Reading
	Override     = domain.Override
)

// ScheduleConfig sizes the shuffled label window.
type ScheduleConfig = schedule.Config

// ScheduleState is a snapshot of a schedule window.
type ScheduleState = schedule.State

// Collector streams live ph/tds overrides (OPC UA, simulators, etc.) into the runtime.
type Collector = ports.Collector

// ReadingQueue is the bounded queue between the tick loop and the sink.
type ReadingQueue = ports.ReadingQueue

// Transformer may enrich or reject readings before they reach the sink.
type Transformer = ports.Transformer

// Sink persists batches of readings.
type Sink = ports.Sink

// Observability emits logs and metrics about readings, overrides and the sink.
type Observability = ports.Observability

type Field = ports.Field

// Rand is the injectable random source; *math/rand/v2.Rand satisfies it.
type Rand = ports.Rand

type Clock = ports.Clock

const (
	LabelSafe = domain.LabelSafe
	LabelBad  = domain.LabelBad
)

const (
	Color         = domain.Color
	Odour         = domain.Odour
	Taste         = domain.Taste
	Turbidity     = domain.Turbidity
	Temperature   = domain.Temperature
	TDS           = domain.TDS
	PH            = domain.PH
	COD           = domain.COD
	Hardness      = domain.Hardness
	Sulfate       = domain.Sulfate
	Nitrite       = domain.Nitrite
	Chloride      = domain.Chloride
	Nitrate       = domain.Nitrate
	Cyanide       = domain.Cyanide
	Fluoride      = domain.Fluoride
	Ammonia       = domain.Ammonia
	Aluminum      = domain.Aluminum
	Copper        = domain.Copper
	Iron          = domain.Iron
	Manganese     = domain.Manganese
	Zinc          = domain.Zinc
	TotalColiform = domain.TotalColiform
	EColi         = domain.EColi
)

// ErrNoRandSource is returned when a constructor is handed no randomness.
var ErrNoRandSource = ports.ErrNoRandSource

// AllParameters lists every parameter key in canonical order.
func AllParameters() []ParameterKey { return domain.AllParameters() }

// ParseParameterKey resolves a wire name such as "ph" or "total_coliform".
func ParseParameterKey(name string) (ParameterKey, error) { return domain.ParseParameterKey(name) }
