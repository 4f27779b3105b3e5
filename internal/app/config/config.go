package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/opcua"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/schedule"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/synth"
)

const (
	SinkNone      = "none"
	SinkTimescale = "timescale"
)

type Config struct {
	Engine  EngineConfig   `yaml:"engine"`
	Devices []DeviceConfig `yaml:"devices"`
	Policy  ports.Policy   `yaml:"policy"`
	Sink    SinkConfig     `yaml:"sink"`
	OPCUA   OPCUAConfig    `yaml:"opcua"`
	HTTP    HTTPConfig     `yaml:"http"`
	Logging LoggingConfig  `yaml:"logging"`
}

// EngineConfig drives the per-device tick loop. Seed 0 seeds from crypto/rand.
type EngineConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	Seed            uint64        `yaml:"seed"`
	schedule.Config `yaml:",inline"`
}

type DeviceConfig struct {
	ID       string `yaml:"id"`
	Location string `yaml:"location"`
	UVOn     *bool  `yaml:"uv_on"`
}

// UV reports the configured sterilizer state; unset means on.
func (d DeviceConfig) UV() bool { return d.UVOn == nil || *d.UVOn }

type SinkConfig struct {
	Kind       string `yaml:"kind"`
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type OPCUAConfig struct {
	Enabled      bool `yaml:"enabled"`
	opcua.Config `yaml:",inline"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes YAML, fills defaults and validates.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default is a single-device configuration with no sink.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

func (c *Config) ApplyDefaults() {
	if c.Engine.TickInterval <= 0 {
		c.Engine.TickInterval = time.Second
	}
	c.Engine.Config.ApplyDefaults()

	if len(c.Devices) == 0 {
		c.Devices = []DeviceConfig{{ID: synth.DefaultDeviceID, Location: synth.DefaultLocation}}
	}
	for i := range c.Devices {
		if c.Devices[i].Location == "" {
			c.Devices[i].Location = synth.DefaultLocation
		}
	}

	if c.Policy.MaxQueueLen == 0 {
		c.Policy.MaxQueueLen = 10_000
	}
	if c.Policy.MaxBatchSize == 0 {
		c.Policy.MaxBatchSize = 100
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 50 * time.Millisecond
	}
	if c.Policy.OnQueueFull == "" {
		c.Policy.OnQueueFull = "drop"
	}

	c.Sink.Kind = strings.ToLower(c.Sink.Kind)
	if c.Sink.Kind == "" {
		c.Sink.Kind = SinkNone
	}
	if c.Sink.Table == "" {
		c.Sink.Table = "water_readings"
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":9100"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if c.OPCUA.Enabled {
		c.OPCUA.Config.ApplyDefaults()
	}
}

func (c *Config) Validate() error {
	if err := c.Engine.Config.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Devices))
	for i, d := range c.Devices {
		if d.ID == "" {
			return fmt.Errorf("devices[%d].id is required", i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("duplicate device id %q", d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	switch c.Policy.OnQueueFull {
	case "block", "drop", "reject":
	default:
		return fmt.Errorf("policy.on_queue_full must be block, drop or reject, got %q", c.Policy.OnQueueFull)
	}
	if c.Policy.MaxQueueLen < 0 || c.Policy.MaxBatchSize < 0 {
		return errors.New("policy sizes must be >= 0")
	}

	switch c.Sink.Kind {
	case SinkNone:
	case SinkTimescale:
		if c.Sink.ConnString == "" {
			return errors.New("sink.conn_string is required for timescale")
		}
	default:
		return fmt.Errorf("sink.kind must be none or timescale, got %q", c.Sink.Kind)
	}

	if c.OPCUA.Enabled {
		if err := c.OPCUA.Config.Validate(); err != nil {
			return fmt.Errorf("opcua config: %w", err)
		}
		for _, n := range c.OPCUA.Nodes {
			if _, ok := seen[n.DeviceID]; !ok {
				return fmt.Errorf("opcua node %q references unknown device %q", n.NodeID, n.DeviceID)
			}
		}
	}

	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	return nil
}
