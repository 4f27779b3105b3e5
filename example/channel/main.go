package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/laaroybafyh/WatercoinAIxHBAR"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, batches, closeBatches := watercoin.NewChannelSink("alerts", 32)
	defer closeBatches()

	go alertWorker(batches)

	flow := watercoin.Conf("../../data/config.yaml")
	if err := flow.Run(ctx, watercoin.StreamOutSink(sink)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

// alertWorker prints only the readings that failed evaluation.
func alertWorker(batches <-chan []watercoin.Reading) {
	for batch := range batches {
		for _, r := range batch {
			if r.Verdict.Safe {
				continue
			}
			fmt.Printf("[%s] %s: %s\n", r.Packet.DeviceID, r.Headline, r.Verdict.Reason)
		}
	}
}
