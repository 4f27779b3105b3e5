// Package randsrc builds the seeded PCG sources that drive schedules and
// synthesizers. Each device stream gets its own source.
package randsrc

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

const streamMix = 0x9e3779b97f4a7c15

// Factory returns a fresh source for a device id.
type Factory func(deviceID string) (ports.Rand, error)

// New returns a PCG source for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamMix))
}

// NewSeed reads a seed from the operating system. A failing entropy source
// is reported rather than papered over.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read entropy: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// StreamSeed derives a per-device seed so the same base seed replays every
// stream identically while streams stay independent of each other.
func StreamSeed(base uint64, deviceID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(deviceID))
	return base ^ h.Sum64()
}

// NewFactory returns a Factory keyed on base. A zero base draws a new seed
// from the operating system for every stream.
func NewFactory(base uint64) Factory {
	return func(deviceID string) (ports.Rand, error) {
		if base == 0 {
			seed, err := NewSeed()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ports.ErrNoRandSource, err)
			}
			return New(seed), nil
		}
		return New(StreamSeed(base, deviceID)), nil
	}
}
