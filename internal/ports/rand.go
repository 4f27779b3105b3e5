package ports

import (
	"errors"
	"time"
)

// ErrNoRandSource is returned by constructors that cannot work without randomness.
var ErrNoRandSource = errors.New("watercoin: random source is required")

// Rand is the injectable random source. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Clock yields wall-clock time; tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
