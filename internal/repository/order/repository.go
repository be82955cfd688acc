package order

import (
	"context"

	"vibe-commerce/internal/domain"
)

type Repository interface {
	// Place persists the order and removes every cart line of sessionID as one unit
	// of work. On error neither change is visible.
	Place(ctx context.Context, order domain.Order, sessionID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}
