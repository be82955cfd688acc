// Package store opens the configured backend and hands out its repositories.
package store

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"vibe-commerce/internal/config"
	"vibe-commerce/internal/db"
	"vibe-commerce/internal/migrate"
	cartrepo "vibe-commerce/internal/repository/cart"
	orderrepo "vibe-commerce/internal/repository/order"
	productrepo "vibe-commerce/internal/repository/product"
)

type Stores struct {
	Backend  string
	Products productrepo.Repository
	Carts    cartrepo.Repository
	Orders   orderrepo.Repository

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks the backend is reachable; it backs the readiness endpoint.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Stores) Close() {
	s.close()
}

// Open connects to cfg.StoreBackend. With migrateSchema set the schema (or the
// mongo indexes) is brought up to date before the repositories are built.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger, migrateSchema bool) (*Stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if migrateSchema {
			if err := migrate.Apply(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		return &Stores{
			Backend:  cfg.StoreBackend,
			Products: productrepo.NewPostgres(pool, logger),
			Carts:    cartrepo.NewPostgres(pool),
			Orders:   orderrepo.NewPostgres(pool, logger),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case config.BackendMongo:
		database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		client := database.Client()
		if migrateSchema {
			if err := migrate.ApplyMongo(ctx, database); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, fmt.Errorf("ensure indexes: %w", err)
			}
		}
		return &Stores{
			Backend:  cfg.StoreBackend,
			Products: productrepo.NewMongo(database, logger),
			Carts:    cartrepo.NewMongo(database),
			Orders:   orderrepo.NewMongo(database, logger),
			ping:     pingMongo(client),
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", cfg.StoreBackend, config.BackendPostgres, config.BackendMongo)
}

func pingMongo(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}
