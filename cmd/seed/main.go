package main

import (
	"context"
	"log"
	"os"

	"vibe-commerce/internal/config"
	"vibe-commerce/internal/seed"
	"vibe-commerce/internal/store"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	stores, err := store.Open(ctx, cfg, logger, cfg.AutoMigrate)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.StoreBackend, err)
	}
	defer stores.Close()

	n, err := seed.Apply(ctx, stores.Products, logger)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied, %d products inserted", n)
}
