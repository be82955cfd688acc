package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vibe-commerce/internal/config"
	"vibe-commerce/internal/importer"
	"vibe-commerce/internal/store"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (name,price,description,image_url,stock)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	stores, err := store.Open(ctx, cfg, logger, cfg.AutoMigrate)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.StoreBackend, err)
	}
	defer stores.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, stores.Products)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", res.Imported, err)
	}

	fmt.Printf("Imported %d products (%d already existed) in %s\n", res.Imported, res.Skipped, time.Since(start).Truncate(time.Millisecond))
}
