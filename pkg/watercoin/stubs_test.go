package watercoin

import (
	"sync"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type stubCollector struct{}

func (s *stubCollector) Start(out chan<- domain.Override) error { return nil }
func (s *stubCollector) Stop() error                            { return nil }

type stubSink struct {
	mu       sync.Mutex
	readings []*domain.Reading
}

func (s *stubSink) WriteBatch(readings []*domain.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, readings...)
	return nil
}

func (s *stubSink) Name() string { return "stub" }

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readings)
}

type stubTransformer struct{}

func (s *stubTransformer) Transform(r *domain.Reading) (*domain.Reading, error) { return r, nil }
func (s *stubTransformer) Version() uint16                                      { return 7 }

type stubQueue struct{}

func (s *stubQueue) Enqueue(r *domain.Reading) bool         { return true }
func (s *stubQueue) DequeueBatch(max int) []*domain.Reading { return nil }
func (s *stubQueue) Len() int                               { return 0 }

type stubObservability struct{}

func (s *stubObservability) LogInfo(string, ...Field)         {}
func (s *stubObservability) LogWarn(string, ...Field)         {}
func (s *stubObservability) LogError(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64)       {}
func (s *stubObservability) ObserveLatency(string, float64)   {}
func (s *stubObservability) SetGauge(string, float64)         {}
func (s *stubObservability) RecordReading(*domain.Reading)    {}
func (s *stubObservability) RecordDLQ(*domain.Reading, error) {}
