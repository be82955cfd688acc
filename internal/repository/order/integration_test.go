package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibe-commerce/internal/domain"
	cartrepo "vibe-commerce/internal/repository/cart"
	productrepo "vibe-commerce/internal/repository/product"
	"vibe-commerce/internal/storetest"
)

type fixture struct {
	orders   Repository
	carts    cartrepo.Repository
	products productrepo.Repository
}

func backends() map[string]func(t *testing.T) fixture {
	return map[string]func(t *testing.T) fixture{
		"postgres": func(t *testing.T) fixture {
			pool := storetest.Postgres(t)
			return fixture{
				orders:   NewPostgres(pool, nil),
				carts:    cartrepo.NewPostgres(pool),
				products: productrepo.NewPostgres(pool, nil),
			}
		},
		"mongo": func(t *testing.T) fixture {
			database := storetest.Mongo(t)
			return fixture{
				orders:   NewMongo(database, nil),
				carts:    cartrepo.NewMongo(database),
				products: productrepo.NewMongo(database, nil),
			}
		},
	}
}

func TestPlaceIntegration(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			f := open(t)
			ctx := context.Background()

			mug, err := f.products.Create(ctx, domain.Product{Name: "Vibe Mug", Price: decimal.RequireFromString("19.99")})
			require.NoError(t, err)
			_, err = f.carts.AddQuantity(ctx, "s1", mug.ID, 2)
			require.NoError(t, err)
			_, err = f.carts.AddQuantity(ctx, "s2", mug.ID, 1)
			require.NoError(t, err)

			lines, err := f.carts.ListBySession(ctx, "s1")
			require.NoError(t, err)
			items, total := domain.SnapshotItems(lines)

			placed, err := f.orders.Place(ctx, domain.Order{
				CustomerName:  "Ana",
				CustomerEmail: "ana@example.com",
				Total:         total,
				Items:         items,
			}, "s1")
			require.NoError(t, err)
			assert.NotEmpty(t, placed.ID)
			assert.False(t, placed.CreatedAt.IsZero())

			left, err := f.carts.ListBySession(ctx, "s1")
			require.NoError(t, err)
			assert.Empty(t, left)
			other, err := f.carts.ListBySession(ctx, "s2")
			require.NoError(t, err)
			assert.Len(t, other, 1)

			got, err := f.orders.GetByID(ctx, placed.ID)
			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", got.CustomerEmail)
			assert.True(t, got.Total.Equal(decimal.RequireFromString("39.98")))
			require.Len(t, got.Items, 1)
			assert.Equal(t, mug.ID, got.Items[0].ProductID)
			assert.Equal(t, "Vibe Mug", got.Items[0].Name)
			assert.Equal(t, 2, got.Items[0].Quantity)
		})
	}
}
