// Seeds the backend with its default flight set. Run once against a fresh
// backend so the search page has something to show.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/backend"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := backend.NewClient(cfg.Backend.BaseURL)
	count, err := client.SeedFlights(ctx)
	if err != nil {
		log.Fatalf("seed flights: %v", err)
	}
	log.Printf("seeded %d flights", count)
}
