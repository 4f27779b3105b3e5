package ports

import "github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"

type Sink interface {
	WriteBatch(readings []*domain.Reading) error
	Name() string
}
