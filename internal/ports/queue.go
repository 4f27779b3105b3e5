package ports

import "github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"

type ReadingQueue interface {
	Enqueue(r *domain.Reading) bool
	DequeueBatch(max int) []*domain.Reading
	Len() int
}
