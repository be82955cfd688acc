// Package storetest starts throwaway Postgres and MongoDB servers for integration
// tests. TEST_DB_DSN and TEST_MONGO_URI point the helpers at an existing server
// instead of a container.
package storetest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vibe-commerce/internal/db"
	"vibe-commerce/internal/migrate"
)

// Postgres returns a migrated pool with empty tables. The pool and any container
// are released when the test ends.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	ctx := context.Background()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("commerce_test"),
			postgres.WithUsername("commerce"),
			postgres.WithPassword("commerce"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			if err := container.Terminate(context.Background()); err != nil {
				t.Logf("failed to terminate postgres container: %s", err)
			}
		})
		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrate.Apply(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE cart_lines, orders, products CASCADE`)
	require.NoError(t, err)
	return pool
}

// Mongo returns a database on a single-node replica set with indexes in place and
// no documents. Transactions need the replica set.
func Mongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	ctx := context.Background()

	uri := os.Getenv("TEST_MONGO_URI")
	direct := false
	if uri == "" {
		container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
		require.NoError(t, err)
		t.Cleanup(func() {
			if err := container.Terminate(context.Background()); err != nil {
				t.Logf("failed to terminate mongo container: %s", err)
			}
		})
		uri, err = container.ConnectionString(ctx)
		require.NoError(t, err)
		direct = true
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetDirect(direct))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil))

	database := client.Database("vibe_commerce_test")
	require.NoError(t, database.Drop(ctx))
	require.NoError(t, migrate.ApplyMongo(ctx, database))
	return database
}
