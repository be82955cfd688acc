package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an append-only purchase record. Items hold the catalog values seen at checkout.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	Items         []OrderItem
	CreatedAt     time.Time
}

type OrderItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// SnapshotItems freezes the joined cart lines into order items and returns their sum.
func SnapshotItems(items []CartItem) ([]OrderItem, decimal.Decimal) {
	out := make([]OrderItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		sub := it.Subtotal()
		out = append(out, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  sub,
		})
		total = total.Add(sub)
	}
	return out, total
}
