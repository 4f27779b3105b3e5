package queue

import (
	"sync"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

// MemQueue is a bounded in-memory FIFO of evaluated readings waiting for the sink.
type MemQueue struct {
	mu   sync.Mutex
	data []*domain.Reading
	cap  int
}

func NewMemQueue(capacity int) *MemQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemQueue{
		data: make([]*domain.Reading, 0, capacity),
		cap:  capacity,
	}
}

func (q *MemQueue) Enqueue(r *domain.Reading) bool {
	if r == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) >= q.cap {
		return false
	}
	q.data = append(q.data, r)
	return true
}

func (q *MemQueue) DequeueBatch(max int) []*domain.Reading {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	if max <= 0 || max > len(q.data) {
		max = len(q.data)
	}
	out := make([]*domain.Reading, max)
	copy(out, q.data[:max])
	// clear the tail so dequeued readings can be collected
	n := copy(q.data, q.data[max:])
	for i := n; i < len(q.data); i++ {
		q.data[i] = nil
	}
	q.data = q.data[:n]
	return out
}

func (q *MemQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

func (q *MemQueue) Cap() int { return q.cap }

var _ ports.ReadingQueue = (*MemQueue)(nil)
