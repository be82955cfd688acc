package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStock is applied to products created without an explicit stock counter.
const DefaultStock = 999

type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
	Stock       int
	CreatedAt   time.Time
}
