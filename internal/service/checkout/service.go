package checkout

import (
	"context"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vibe-commerce/internal/domain"
)

type Service struct {
	carts  cartReader
	orders orderStore
	logger *log.Logger
}

type cartReader interface {
	ListBySession(ctx context.Context, sessionID string) ([]domain.CartItem, error)
}

type orderStore interface {
	Place(ctx context.Context, order domain.Order, sessionID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

func New(carts cartReader, orders orderStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{carts: carts, orders: orders, logger: logger}
}

type Customer struct {
	Name  string
	Email string
}

type Input struct {
	SessionID string
	Customer  Customer
}

type Receipt struct {
	OrderID   string
	Total     decimal.Decimal
	Timestamp time.Time
	Items     []domain.OrderItem
}

// Checkout snapshots the session's cart into an order and clears the cart in the
// same unit of work.
func (s *Service) Checkout(ctx context.Context, in Input) (*Receipt, error) {
	sessionID := in.SessionID
	name := strings.TrimSpace(in.Customer.Name)
	email := strings.TrimSpace(in.Customer.Email)

	var details []string
	if strings.TrimSpace(sessionID) == "" {
		details = append(details, "sessionId: sessionId is required")
	}
	if name == "" {
		details = append(details, "customer.name: name is required")
	}
	if email == "" {
		details = append(details, "customer.email: email is required")
	} else if !validEmail(email) {
		details = append(details, "customer.email: invalid email")
	}
	if len(details) > 0 {
		return nil, domain.InvalidFields(details...)
	}

	lines, err := s.carts.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	items, total := domain.SnapshotItems(lines)
	placed, err := s.orders.Place(ctx, domain.Order{
		CustomerName:  name,
		CustomerEmail: email,
		Total:         total,
		Items:         items,
	}, sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("checkout: order=%s lines=%d total=%s", placed.ID, len(placed.Items), placed.Total.StringFixed(2))
	return &Receipt{
		OrderID:   placed.ID,
		Total:     placed.Total,
		Timestamp: placed.CreatedAt,
		Items:     placed.Items,
	}, nil
}

// Order returns a placed order with its frozen item snapshot.
func (s *Service) Order(ctx context.Context, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("order id is required")
	}
	return s.orders.GetByID(ctx, id)
}

// validEmail accepts a bare addr-spec with a dotted domain, e.g. a@b.com.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
