package ports

import "github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"

// Collector streams live partial updates (ph/tds) from an external source.
type Collector interface {
	Start(out chan<- domain.Override) error
	Stop() error
}
