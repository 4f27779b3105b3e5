package ports

import "github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"

type Logger interface {
	LogInfo(msg string, fields ...Field)
	LogWarn(msg string, fields ...Field)
	LogError(msg string, err error, fields ...Field)
}

type Observability interface {
	Logger

	IncCounter(name string, v float64)
	ObserveLatency(name string, seconds float64)

	SetGauge(name string, v float64)

	RecordReading(r *domain.Reading)
	RecordDLQ(r *domain.Reading, err error)
}

type Field struct {
	Key   string
	Value any
}
