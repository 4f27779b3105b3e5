package watercoin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("watercoin: channel sink closed")

// ReadingBatchSink is invoked with ordered batches dequeued from the pipeline.
type ReadingBatchSink func([]Reading) error

// NewCallbackSink adapts a ReadingBatchSink into a full Sink so callers can
// plug plain functions without defining structs.
func NewCallbackSink(name string, fn ReadingBatchSink) Sink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes batches via a channel; it returns the sink, the
// read-only channel, and a close function the caller invokes during shutdown.
func NewChannelSink(name string, buffer int) (Sink, <-chan []Reading, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan []Reading, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   ReadingBatchSink
}

func (s *callbackSink) WriteBatch(readings []*domain.Reading) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if len(readings) == 0 {
		return nil
	}
	return s.fn(copyBatch(readings))
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan []Reading
	closed chan struct{}
	once   sync.Once

	// sending is held by writers so close never races a send.
	sending sync.RWMutex
}

func (s *channelSink) WriteBatch(readings []*domain.Reading) error {
	s.sending.RLock()
	defer s.sending.RUnlock()

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	if len(readings) == 0 {
		return nil
	}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- copyBatch(readings):
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		s.sending.Lock()
		close(s.ch)
		s.sending.Unlock()
	})
}

// discardSink backs sink.kind "none": readings are still counted as published.
type discardSink struct{}

func (discardSink) WriteBatch([]*domain.Reading) error { return nil }
func (discardSink) Name() string                       { return "none" }

// copyBatch detaches readings from the queue so callers may keep them.
func copyBatch(readings []*domain.Reading) []Reading {
	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r == nil {
			continue
		}
		c := *r
		c.Packet = r.Packet.Clone()
		out = append(out, c)
	}
	return out
}
