package watercoin

import (
	"time"

	base "github.com/laaroybafyh/WatercoinAIxHBAR/pkg/watercoin"
)

// Re-exported errors for convenience.
var (
	ErrQueueFull         = base.ErrQueueFull
	ErrNoRandSource      = base.ErrNoRandSource
	ErrUnknownDevice     = base.ErrUnknownDevice
	ErrNoReading         = base.ErrNoReading
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
)

// Type aliases so consumers can import github.com/laaroybafyh/WatercoinAIxHBAR directly.
type (
	Config                  = base.Config
	Policy                  = base.Policy
	DeviceConfig            = base.DeviceConfig
	Engine                  = base.Engine
	EngineOption            = base.EngineOption
	Runtime                 = base.Runtime
	RuntimeOption           = base.RuntimeOption
	RandFactory             = base.RandFactory
	Flow                    = base.Flow
	FlowOption              = base.FlowOption
	StreamInOption          = base.StreamInOption
	StreamOutOption         = base.StreamOutOption
	ParameterKey            = base.ParameterKey
	SensorPacket            = base.SensorPacket
	Scalar                  = base.Scalar
	Label                   = base.Label
	Verdict                 = base.Verdict
	Brand                   = base.Brand
	Reading                 = base.Reading
	Override                = base.Override
	ReadingBatchSink        = base.ReadingBatchSink
	Collector               = base.Collector
	Sink                    = base.Sink
	Transformer             = base.Transformer
	ReadingQueue            = base.ReadingQueue
	Observability           = base.Observability
	ExternalPublisher       = base.ExternalPublisher
	ExternalPublisherConfig = base.ExternalPublisherConfig
)

const (
	LabelSafe = base.LabelSafe
	LabelBad  = base.LabelBad

	ReasonAllClear       = base.ReasonAllClear
	ReasonUVOff          = base.ReasonUVOff
	HeadlineSafe         = base.HeadlineSafe
	HeadlineMicrobiology = base.HeadlineMicrobiology
	HeadlinePoor         = base.HeadlinePoor
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Engine helpers.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	return base.NewEngine(opts...)
}

func WithSeed(seed uint64) EngineOption {
	return base.WithSeed(seed)
}

func Headline(v Verdict) string {
	return base.Headline(v)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) *Flow {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) *Flow {
	return base.ConfFromConfig(cfg, opts...)
}

func StreamInDevice(id, location string, uvOn bool) StreamInOption {
	return base.StreamInDevice(id, location, uvOn)
}

func StreamInSeed(seed uint64) StreamInOption {
	return base.StreamInSeed(seed)
}

func StreamInTickInterval(d time.Duration) StreamInOption {
	return base.StreamInTickInterval(d)
}

func StreamInCollector(col Collector) StreamInOption {
	return base.StreamInCollector(col)
}

func StreamOutBrands(brands []Brand) StreamOutOption {
	return base.StreamOutBrands(brands)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutCallback(name string, fn ReadingBatchSink) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithCollector(col Collector) RuntimeOption {
	return base.WithCollector(col)
}

func WithSink(s Sink) RuntimeOption {
	return base.WithSink(s)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

// Sink adapters.
func NewCallbackSink(name string, fn ReadingBatchSink) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan []Reading, func()) {
	return base.NewChannelSink(name, buffer)
}

// External publisher.
func NewExternalPublisher(cfg *ExternalPublisherConfig, sink ReadingBatchSink) (*ExternalPublisher, error) {
	return base.NewExternalPublisher(cfg, sink)
}
