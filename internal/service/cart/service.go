package cart

import (
	"context"
	"fmt"
	"strings"

	"vibe-commerce/internal/domain"
	cartrepo "vibe-commerce/internal/repository/cart"
)

var maxQuantityDetail = fmt.Sprintf("qty: qty must be <= %d", domain.MaxQuantity)

type Service struct {
	repo        cartrepo.Repository
	productRepo productRepo
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

type AddInput struct {
	ProductID string
	Quantity  int
	SessionID string
}

// AddToCart merges qty into the session's line for the product, creating it when absent.
// A zero quantity means one. Stock is not checked.
func (s *Service) AddToCart(ctx context.Context, in AddInput) (*domain.CartItem, error) {
	productID := strings.TrimSpace(in.ProductID)
	sessionID := in.SessionID
	var details []string
	if productID == "" {
		details = append(details, "productId: productId is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		details = append(details, "sessionId: sessionId is required")
	}
	if in.Quantity < 0 {
		details = append(details, "qty: qty must be >= 1")
	}
	if in.Quantity > domain.MaxQuantity {
		details = append(details, maxQuantityDetail)
	}
	if len(details) > 0 {
		return nil, domain.InvalidFields(details...)
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	line, err := s.repo.AddQuantity(ctx, sessionID, productID, qty)
	if err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, line.ID)
}

// GetCart returns the session's lines with live prices. Session ids are opaque and
// used exactly as given.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.Invalid("sessionId is required")
	}
	items, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart := domain.NewCart(sessionID, items)
	return &cart, nil
}

// UpdateItem overwrites the line quantity; the line must exist.
func (s *Service) UpdateItem(ctx context.Context, id string, qty int) (*domain.CartItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("id is required")
	}
	if qty < 1 {
		return nil, domain.InvalidFields("qty: qty must be >= 1")
	}
	if qty > domain.MaxQuantity {
		return nil, domain.InvalidFields(maxQuantityDetail)
	}
	if err := s.repo.SetQuantity(ctx, id, qty); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, id)
}

// RemoveItem deletes the line. Deleting an id that does not exist succeeds.
func (s *Service) RemoveItem(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id is required")
	}
	return s.repo.Delete(ctx, id)
}
