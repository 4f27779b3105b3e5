package main

import (
	"fmt"
	"log"

	"github.com/laaroybafyh/WatercoinAIxHBAR"
)

func main() {
	engine, err := watercoin.NewEngine(watercoin.WithSeed(2024))
	if err != nil {
		log.Fatalf("new engine: %v", err)
	}

	for i := 0; i < 10; i++ {
		r := engine.Next(true)
		badge := "-"
		if r.Brand != nil {
			badge = r.Brand.Label()
		}
		fmt.Printf("%2d %-4s %-36s %s\n", i+1, r.Label, r.Headline, badge)
	}
}
