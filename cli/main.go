// Package main provides a terminal client that follows the live activity feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "Marketplace server address")
	limit := flag.Int("limit", 5, "Number of feed entries to show")
	flag.Parse()

	log.SetFlags(log.Ltime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := NewClient(*addr)
	if err != nil {
		log.Fatalf("Invalid address: %v", err)
	}

	fmt.Printf("Following activity on %s (Ctrl+C to exit)\n", *addr)

	err = client.Follow(ctx, func() {
		events, err := client.FetchActivity(ctx, *limit)
		if err != nil {
			log.Printf("Fetch error: %v", err)
			return
		}
		printFeed(os.Stdout, events)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("Feed stopped: %v", err)
	}
	fmt.Println("\nBye!")
}
