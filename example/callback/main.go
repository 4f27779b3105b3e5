package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/laaroybafyh/WatercoinAIxHBAR/pkg/watercoin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(batch []watercoin.Reading) error {
		for _, r := range batch {
			fmt.Printf("%s device=%s seq=%d label=%s safe=%v %s\n",
				r.Packet.Timestamp.Format(time.RFC3339Nano),
				r.Packet.DeviceID,
				r.Seq,
				r.Label,
				r.Verdict.Safe,
				r.Headline,
			)
		}
		return nil
	}

	flow := watercoin.Conf("../../data/config.yaml").
		StreamIN(watercoin.StreamInSeed(2024), watercoin.StreamInTickInterval(500*time.Millisecond))

	if err := flow.Run(ctx, watercoin.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
