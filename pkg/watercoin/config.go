package watercoin

import (
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/opcua"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/app/config"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// EngineConfig controls tick cadence, seeding and the schedule window.
	EngineConfig = config.EngineConfig
	// DeviceConfig declares one telemetry stream.
	DeviceConfig = config.DeviceConfig
	// Policy controls queue thresholds and backpressure.
	Policy = ports.Policy
	// SinkConfig selects and configures the downstream store.
	SinkConfig = config.SinkConfig
	// OPCUAConfig holds connection and node details for live overrides.
	OPCUAConfig = config.OPCUAConfig
	// OPCUANodeConfig maps a monitored tag to a device parameter.
	OPCUANodeConfig = opcua.NodeConfig
	HTTPConfig      = config.HTTPConfig
	LoggingConfig   = config.LoggingConfig
)

const (
	SinkNone      = config.SinkNone
	SinkTimescale = config.SinkTimescale
)

// LoadConfig loads YAML from disk, fills defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(raw []byte) (*Config, error) {
	return config.Parse(raw)
}

// DefaultConfig returns the single-device configuration with no sink.
func DefaultConfig() *Config {
	return config.Default()
}
