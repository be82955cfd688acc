package cart

import (
	"context"

	"vibe-commerce/internal/domain"
)

// Repository stores cart lines keyed by (session, product).
type Repository interface {
	// AddQuantity inserts a line with qty or increments the existing line for the
	// same (session, product) in one conditional write.
	AddQuantity(ctx context.Context, sessionID, productID string, qty int) (*domain.CartLine, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	GetItem(ctx context.Context, id string) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, id string, qty int) error
	Delete(ctx context.Context, id string) error
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}
