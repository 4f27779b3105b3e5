package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

func TestPromObsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPromObs(reg, nil)

	obs.IncCounter(ports.MetricPublished, 5)
	if got := testutil.ToFloat64(obs.counters[ports.MetricPublished]); got != 5 {
		t.Fatalf("expected published counter 5, got %f", got)
	}

	obs.IncCounter(ports.MetricQueueDrops, 2)
	if got := testutil.ToFloat64(obs.counters[ports.MetricQueueDrops]); got != 2 {
		t.Fatalf("expected queue drop counter 2, got %f", got)
	}

	obs.SetGauge(ports.MetricQueueLength, 42)
	if got := testutil.ToFloat64(obs.gauges[ports.MetricQueueLength]); got != 42 {
		t.Fatalf("expected queue gauge 42, got %f", got)
	}

	obs.ObserveLatency(ports.MetricSinkLatency, 0.5)
	hCollector := obs.histos[ports.MetricSinkLatency].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected latency histogram to record 1 sample, got %d", samples)
	}

	obs.RecordDLQ(nil, nil)
	if got := testutil.ToFloat64(obs.counters[ports.MetricDLQ]); got != 1 {
		t.Fatalf("expected dlq counter 1, got %f", got)
	}

	obs.IncCounter("unknown_metric", 1)
	obs.SetGauge("unknown_gauge", 1)
}

func TestPromObsRecordReading(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPromObs(reg, nil)

	brand := &domain.Brand{Name: "Watercoin"}
	obs.RecordReading(&domain.Reading{
		Label:   domain.LabelSafe,
		Packet:  domain.SensorPacket{DeviceID: "D1"},
		Verdict: domain.Verdict{Safe: true},
		Brand:   brand,
	})
	obs.RecordReading(&domain.Reading{
		Label:  domain.LabelBad,
		Packet: domain.SensorPacket{DeviceID: "D1"},
	})
	obs.RecordReading(nil)

	if got := testutil.ToFloat64(obs.readings.WithLabelValues("D1", "safe", "true")); got != 1 {
		t.Fatalf("expected one safe reading, got %f", got)
	}
	if got := testutil.ToFloat64(obs.readings.WithLabelValues("D1", "bad", "false")); got != 1 {
		t.Fatalf("expected one bad reading, got %f", got)
	}
	if got := testutil.ToFloat64(obs.brands.WithLabelValues("Watercoin")); got != 1 {
		t.Fatalf("expected one brand match, got %f", got)
	}
	if n, err := testutil.GatherAndCount(reg, "watercoin_readings_total"); err != nil || n != 2 {
		t.Fatalf("expected 2 registered reading series, got %d (err=%v)", n, err)
	}
}

func TestPromObsLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	obs := NewPromObs(nil, zap.New(core))

	obs.LogInfo("device_registered", Field{Key: "device_id", Value: "D1"})
	obs.LogError("sink_write_failed", errors.New("boom"))
	obs.RecordDLQ(&domain.Reading{Seq: 9}, errors.New("rejected"))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	if entries[0].Message != "device_registered" || entries[0].ContextMap()["device_id"] != "D1" {
		t.Fatalf("unexpected info entry %+v", entries[0])
	}
	if entries[1].ContextMap()["error"] != "boom" {
		t.Fatalf("expected error field, got %+v", entries[1].ContextMap())
	}
	if entries[2].ContextMap()["seq"] != uint64(9) {
		t.Fatalf("expected seq field on dlq entry, got %+v", entries[2].ContextMap())
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger("debug", "console"); err != nil {
		t.Fatalf("console logger: %v", err)
	}
	if _, err := NewLogger("", ""); err != nil {
		t.Fatalf("default logger: %v", err)
	}
	if _, err := NewLogger("loud", "json"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := NewLogger("info", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
