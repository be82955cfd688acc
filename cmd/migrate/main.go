package main

import (
	"context"
	"log"
	"os"

	"vibe-commerce/internal/config"
	"vibe-commerce/internal/store"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	stores, err := store.Open(ctx, cfg, logger, true)
	if err != nil {
		logger.Fatalf("migrate %s: %v", cfg.StoreBackend, err)
	}
	defer stores.Close()

	logger.Printf("migrations applied (store=%s)", stores.Backend)
}
