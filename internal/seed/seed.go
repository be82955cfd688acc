package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"

	"vibe-commerce/internal/domain"
)

type ProductWriter interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	Name        string
	Price       string
	Description string
	ImageURL    string
}

var catalog = []productSeed{
	{Name: "Vibe Headphones", Price: "59.99", Description: "Comfortable over-ear headphones", ImageURL: "/images/headphones.jpg"},
	{Name: "Vibe Wireless Charger", Price: "29.99", Description: "Fast wireless charging pad", ImageURL: "/images/charger.jpg"},
	{Name: "Vibe Smartwatch", Price: "199.99", Description: "Fitness tracking smartwatch", ImageURL: "/images/smartwatch.jpg"},
	{Name: "Vibe Backpack", Price: "79.99", Description: "Waterproof travel backpack", ImageURL: "/images/backpack.jpg"},
	{Name: "Vibe Sunglasses", Price: "24.99", Description: "Stylish polarized sunglasses", ImageURL: "/images/sunglasses.jpg"},
	{Name: "Vibe Phone Case", Price: "14.99", Description: "Slim protective case", ImageURL: "/images/phone-case.jpg"},
	{Name: "Vibe Laptop Sleeve", Price: "34.99", Description: "Protective laptop sleeve", ImageURL: "/images/laptop-sleeve.jpg"},
	{Name: "Vibe Water Bottle", Price: "19.99", Description: "Insulated stainless bottle", ImageURL: "/images/water-bottle.jpg"},
}

// Apply inserts the demo catalog. Products whose name already exists are left alone,
// so running it twice is harmless. It returns how many products were inserted.
func Apply(ctx context.Context, products ProductWriter, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	inserted := 0
	for _, p := range catalog {
		_, err := products.Create(ctx, domain.Product{
			Name:        p.Name,
			Price:       decimal.RequireFromString(p.Price),
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Stock:       domain.DefaultStock,
		})
		if errors.Is(err, domain.ErrProductExists) {
			logger.Printf("already exists %s", p.Name)
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		logger.Printf("inserted %s", p.Name)
		inserted++
	}
	return inserted, nil
}
