package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vibe-commerce/internal/config"
	"vibe-commerce/internal/httpserver"
	cartsvc "vibe-commerce/internal/service/cart"
	checkoutsvc "vibe-commerce/internal/service/checkout"
	productsvc "vibe-commerce/internal/service/product"
	"vibe-commerce/internal/store"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	stores, err := store.Open(ctx, cfg, logger, cfg.AutoMigrate)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.StoreBackend, err)
	}
	defer stores.Close()

	productService := productsvc.New(stores.Products)
	cartService := cartsvc.New(stores.Carts, stores.Products)
	checkoutService := checkoutsvc.New(stores.Carts, stores.Orders, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, stores, httpserver.Deps{
		ProductSvc:  productService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		Metrics:     httpserver.NewMetrics("api"),
	}, httpserver.Options{
		BasePath:       cfg.BasePath,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (store=%s, base=%s)", cfg.HTTPAddr, stores.Backend, cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
