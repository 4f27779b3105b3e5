package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/laaroybafyh/WatercoinAIxHBAR"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flow := watercoin.Conf("../../data/config.yaml").
		StreamIN(watercoin.StreamInDevice("DEPOT_BACKUP", "Gudang Belakang", false))

	if err := flow.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("runtime exited: %v", err)
	}
}
