package watercoin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewExternalPublisherValidation(t *testing.T) {
	if _, err := NewExternalPublisher(nil, func([]Reading) error { return nil }); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := NewExternalPublisher(&ExternalPublisherConfig{}, nil); err == nil {
		t.Fatalf("expected error for nil sink")
	}
}

func TestExternalPublisherEvaluatesAndDelivers(t *testing.T) {
	var (
		mu  sync.Mutex
		got []Reading
	)
	pub, err := NewExternalPublisher(&ExternalPublisherConfig{}, func(batch []Reading) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, batch...)
		return nil
	})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}

	e := newSeededEngine(t, 9)
	ctx := context.Background()
	for _, label := range []Label{LabelSafe, LabelBad, LabelSafe} {
		if _, err := pub.Publish(ctx, label, e.Synthesize(label, true), true); err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	}

	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := pub.Close(closeCtx); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Fatalf("expected 3 readings flushed, got %d", len(got))
	}
	for i, r := range got {
		if r.Seq != uint64(i+1) {
			t.Fatalf("expected seq %d, got %d", i+1, r.Seq)
		}
		if r.Verdict.Safe != (r.Label == LabelSafe) {
			t.Fatalf("reading %d: label %s evaluated safe=%v", i, r.Label, r.Verdict.Safe)
		}
	}
}

func TestExternalPublisherQueueFull(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	cfg := &ExternalPublisherConfig{Policy: Policy{MaxQueueLen: 1, MaxBatchSize: 1, OnQueueFull: "reject"}}
	pub, err := NewExternalPublisher(cfg, func([]Reading) error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}

	e := newSeededEngine(t, 4)
	ctx := context.Background()
	packet := e.Synthesize(LabelSafe, true)

	if _, err := pub.Publish(ctx, LabelSafe, packet, true); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("sink was never called")
	}
	if _, err := pub.Publish(ctx, LabelSafe, packet, true); err != nil {
		t.Fatalf("second publish should fit the queue: %v", err)
	}
	if _, err := pub.Publish(ctx, LabelSafe, packet, true); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	close(release)
	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := pub.Close(closeCtx); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
