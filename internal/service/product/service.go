package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"vibe-commerce/internal/domain"
	productrepo "vibe-commerce/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput mirrors the catalog admin payload. Price and Stock are pointers so a
// missing field can be told apart from zero.
type CreateInput struct {
	Name        string
	Price       *float64
	Description string
	ImageURL    string
	Stock       *int
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("product id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates the payload and inserts the product. A duplicate name fails with
// domain.ErrProductExists and leaves the catalog untouched.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	var details []string
	name := strings.TrimSpace(in.Name)
	if name == "" {
		details = append(details, "name: name is required")
	}
	if in.Price == nil {
		details = append(details, "price: price is required")
	} else if *in.Price < 0 {
		details = append(details, "price: price must be >= 0")
	}
	stock := domain.DefaultStock
	if in.Stock != nil {
		if *in.Stock < 0 {
			details = append(details, "stock: stock must be >= 0")
		}
		stock = *in.Stock
	}
	if len(details) > 0 {
		return nil, domain.InvalidFields(details...)
	}

	return s.repo.Create(ctx, domain.Product{
		Name:        name,
		Price:       decimal.NewFromFloat(*in.Price),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Stock:       stock,
	})
}
