package ports

import "github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"

// Transformer may enrich or reject readings right before they reach the sink.
type Transformer interface {
	Transform(*domain.Reading) (*domain.Reading, error)
	Version() uint16
}
