package pipeline

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the device streams by id.
type Registry struct {
	mu      sync.RWMutex
	streams map[string]*Stream
}

func NewRegistry() *Registry {
	return &Registry{streams: make(map[string]*Stream)}
}

func (r *Registry) Add(s *Stream) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.streams[s.ID()]; exists {
		return fmt.Errorf("stream %q already registered", s.ID())
	}
	r.streams[s.ID()] = s
	return nil
}

func (r *Registry) Get(id string) (*Stream, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.streams[id]
	return s, ok
}

// List returns the streams ordered by device id.
func (r *Registry) List() []*Stream {
	r.mu.RLock()
	out := make([]*Stream, 0, len(r.streams))
	for _, s := range r.streams {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}
