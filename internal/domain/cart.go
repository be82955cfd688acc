package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest line quantity every store can hold.
const MaxQuantity = math.MaxInt32

// CartLine is one (session, product) pairing. The store keeps at most one line per pair.
type CartLine struct {
	ID        string
	SessionID string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a CartLine joined with the live catalog entry it references.
type CartItem struct {
	CartLine
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	SessionID string
	Items     []CartItem
	Total     decimal.Decimal
}

// NewCart computes the cart total from live prices.
func NewCart(sessionID string, items []CartItem) Cart {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	if items == nil {
		items = []CartItem{}
	}
	return Cart{SessionID: sessionID, Items: items, Total: total}
}
