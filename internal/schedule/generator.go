// Package schedule produces the shuffled safe/bad label sequence that drives
// the synthesizer. The reshuffle is wall-clock based while slot indexing is
// call-count based; both triggers are independent.
package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// Config sizes one window.
type Config struct {
	Window    time.Duration `yaml:"window"`
	SafeCount int           `yaml:"safe_count"`
	BadCount  int           `yaml:"bad_count"`
}

// DefaultConfig is the 60 second, 36 safe + 24 bad (3:2) window.
func DefaultConfig() Config {
	return Config{Window: 60 * time.Second, SafeCount: 36, BadCount: 24}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.SafeCount == 0 && c.BadCount == 0 {
		c.SafeCount = d.SafeCount
		c.BadCount = d.BadCount
	}
}

func (c Config) Validate() error {
	if c.SafeCount < 0 || c.BadCount < 0 {
		return fmt.Errorf("safe_count and bad_count must be >= 0")
	}
	if c.SafeCount+c.BadCount == 0 {
		return fmt.Errorf("schedule needs at least one slot")
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be > 0")
	}
	return nil
}

// Slots is the number of labels in one window.
func (c Config) Slots() int { return c.SafeCount + c.BadCount }

// State is the generator's mutable state. A zero State is an expired window.
type State struct {
	WindowStart int64 // unix milliseconds
	Slots       []domain.Label
	Cursor      int
}

// Generator hands out one label per call. It is safe for concurrent use;
// each independent telemetry stream should own its own Generator.
type Generator struct {
	mu    sync.Mutex
	cfg   Config
	rng   ports.Rand
	clock ports.Clock
	state State
}

// NewGenerator returns a generator whose first Next call builds a window.
func NewGenerator(cfg Config, rng ports.Rand, clock ports.Clock) (*Generator, error) {
	if rng == nil {
		return nil, ports.ErrNoRandSource
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("schedule config: %w", err)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Generator{cfg: cfg, rng: rng, clock: clock}, nil
}

// Next returns the label for the current tick and advances the cursor.
func (g *Generator) Next() domain.Label {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now().UnixMilli()
	if g.expiredLocked(now) {
		g.reshuffleLocked(now)
	}

	label := g.state.Slots[g.state.Cursor%len(g.state.Slots)]
	g.state.Cursor = (g.state.Cursor + 1) % len(g.state.Slots)
	return label
}

// Snapshot returns a copy of the current state.
func (g *Generator) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.state
	out.Slots = append([]domain.Label(nil), g.state.Slots...)
	return out
}

func (g *Generator) expiredLocked(now int64) bool {
	if len(g.state.Slots) == 0 {
		return true
	}
	return now-g.state.WindowStart >= g.cfg.Window.Milliseconds()
}

func (g *Generator) reshuffleLocked(now int64) {
	slots := g.state.Slots[:0]
	if cap(slots) < g.cfg.Slots() {
		slots = make([]domain.Label, 0, g.cfg.Slots())
	}
	for i := 0; i < g.cfg.SafeCount; i++ {
		slots = append(slots, domain.LabelSafe)
	}
	for i := 0; i < g.cfg.BadCount; i++ {
		slots = append(slots, domain.LabelBad)
	}
	Shuffle(g.rng, slots)

	g.state = State{WindowStart: now, Slots: slots, Cursor: 0}
}

// Shuffle applies an in-place Fisher–Yates permutation driven by rng.
func Shuffle[T any](rng ports.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
