package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"vibe-commerce/internal/domain"
)

// memRepo keeps lines in memory and joins them against products the same way the
// stores do.
type memRepo struct {
	products map[string]domain.Product
	lines    []domain.CartLine
	nextID   int
	addErr   error
	deleted  []string
}

func newMemRepo(products ...domain.Product) *memRepo {
	m := &memRepo{products: map[string]domain.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memRepo) AddQuantity(_ context.Context, sessionID, productID string, qty int) (*domain.CartLine, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	for i := range m.lines {
		if m.lines[i].SessionID == sessionID && m.lines[i].ProductID == productID {
			m.lines[i].Quantity += qty
			line := m.lines[i]
			return &line, nil
		}
	}
	m.nextID++
	line := domain.CartLine{ID: fmt.Sprintf("line-%d", m.nextID), SessionID: sessionID, ProductID: productID, Quantity: qty}
	m.lines = append(m.lines, line)
	return &line, nil
}

func (m *memRepo) join(line domain.CartLine) domain.CartItem {
	p := m.products[line.ProductID]
	return domain.CartItem{CartLine: line, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
}

func (m *memRepo) ListBySession(_ context.Context, sessionID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	for _, l := range m.lines {
		if l.SessionID == sessionID {
			out = append(out, m.join(l))
		}
	}
	return out, nil
}

func (m *memRepo) GetItem(_ context.Context, id string) (*domain.CartItem, error) {
	for _, l := range m.lines {
		if l.ID == id {
			item := m.join(l)
			return &item, nil
		}
	}
	return nil, domain.ErrCartItemNotFound
}

func (m *memRepo) SetQuantity(_ context.Context, id string, qty int) error {
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines[i].Quantity = qty
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memRepo) DeleteBySession(_ context.Context, sessionID string) (int64, error) {
	var kept []domain.CartLine
	var n int64
	for _, l := range m.lines {
		if l.SessionID == sessionID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	m.lines = kept
	return n, nil
}

type stubProductRepo struct {
	repo *memRepo
	err  error
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.repo.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func newService(products ...domain.Product) (*Service, *memRepo) {
	repo := newMemRepo(products...)
	return New(repo, &stubProductRepo{repo: repo}), repo
}

var tenner = domain.Product{ID: "p1", Name: "Vibe Mug", Price: decimal.RequireFromString("10.00"), Stock: 999}

func TestAddToCartValidation(t *testing.T) {
	svc, _ := newService(tenner)
	cases := []AddInput{
		{ProductID: "", SessionID: "s1"},
		{ProductID: "p1", SessionID: "  "},
		{ProductID: "p1", SessionID: "s1", Quantity: -2},
	}
	for _, in := range cases {
		_, err := svc.AddToCart(context.Background(), in)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("input %+v: expected invalid argument, got %v", in, err)
		}
	}
}

func TestAddToCartProductNotFound(t *testing.T) {
	svc, repo := newService(tenner)
	_, err := svc.AddToCart(context.Background(), AddInput{ProductID: "missing", SessionID: "s1"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.lines) != 0 {
		t.Fatalf("no line should be written, got %+v", repo.lines)
	}
}

func TestAddToCartDefaultsQuantityToOne(t *testing.T) {
	svc, _ := newService(tenner)
	item, err := svc.AddToCart(context.Background(), AddInput{ProductID: "p1", SessionID: "s1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != 1 || item.Name != "Vibe Mug" || !item.Price.Equal(tenner.Price) {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestAddToCartMergesQuantities(t *testing.T) {
	svc, repo := newService(tenner)
	ctx := context.Background()
	first, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1", Quantity: 2})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1", Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same line, got %s and %s", first.ID, second.ID)
	}
	if second.Quantity != 5 || len(repo.lines) != 1 {
		t.Fatalf("expected one line with qty 5, got %+v", repo.lines)
	}
}

func TestAddToCartSessionsArePartitioned(t *testing.T) {
	svc, repo := newService(tenner)
	ctx := context.Background()
	if _, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1"}); err != nil {
		t.Fatalf("add s1: %v", err)
	}
	if _, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s2"}); err != nil {
		t.Fatalf("add s2: %v", err)
	}
	if len(repo.lines) != 2 {
		t.Fatalf("expected a line per session, got %+v", repo.lines)
	}
}

func TestAddToCartRepoError(t *testing.T) {
	svc, repo := newService(tenner)
	repo.addErr = errors.New("boom")
	_, err := svc.AddToCart(context.Background(), AddInput{ProductID: "p1", SessionID: "s1"})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestGetCartRequiresSession(t *testing.T) {
	svc, _ := newService()
	_, err := svc.GetCart(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestGetCartTotalUsesLivePrices(t *testing.T) {
	other := domain.Product{ID: "p2", Name: "Vibe Case", Price: decimal.RequireFromString("14.99")}
	svc, repo := newService(tenner, other)
	ctx := context.Background()
	if _, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1", Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddToCart(ctx, AddInput{ProductID: "p2", SessionID: "s1", Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.GetCart(ctx, "s1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 2 || !cart.Total.Equal(decimal.RequireFromString("64.97")) {
		t.Fatalf("unexpected cart %+v", cart)
	}

	// catalog price change shows up on the next read
	p := repo.products["p1"]
	p.Price = decimal.RequireFromString("12.50")
	repo.products["p1"] = p
	cart, err = svc.GetCart(ctx, "s1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !cart.Total.Equal(decimal.RequireFromString("69.97")) {
		t.Fatalf("expected live price total 69.97, got %s", cart.Total)
	}
}

func TestGetCartEmpty(t *testing.T) {
	svc, _ := newService(tenner)
	cart, err := svc.GetCart(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Items == nil || len(cart.Items) != 0 || !cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestUpdateItemOverwritesQuantity(t *testing.T) {
	svc, _ := newService(tenner)
	ctx := context.Background()
	added, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1", Quantity: 4})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	updated, err := svc.UpdateItem(ctx, added.ID, 2)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 2 {
		t.Fatalf("expected qty 2, got %d", updated.Quantity)
	}
	cart, _ := svc.GetCart(ctx, "s1")
	if cart.Items[0].Quantity != 2 || !cart.Total.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("cart does not reflect update: %+v", cart)
	}
}

func TestUpdateItemValidation(t *testing.T) {
	svc, _ := newService(tenner)
	if _, err := svc.UpdateItem(context.Background(), "line-1", 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for qty 0, got %v", err)
	}
	if _, err := svc.UpdateItem(context.Background(), "", 1); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty id, got %v", err)
	}
}

func TestUpdateItemMissingLine(t *testing.T) {
	svc, _ := newService(tenner)
	_, err := svc.UpdateItem(context.Background(), "nope", 3)
	if !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Fatalf("expected cart item not found, got %v", err)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, repo := newService(tenner)
	ctx := context.Background()
	added, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveItem(ctx, added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveItem(ctx, added.ID); err != nil {
		t.Fatalf("second remove should succeed, got %v", err)
	}
	if err := svc.RemoveItem(ctx, "never-existed"); err != nil {
		t.Fatalf("remove of unknown id should succeed, got %v", err)
	}
	if len(repo.lines) != 0 || len(repo.deleted) != 3 {
		t.Fatalf("unexpected repo state lines=%+v deleted=%v", repo.lines, repo.deleted)
	}
	if err := svc.RemoveItem(ctx, ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty id, got %v", err)
	}
}

func TestQuantityAboveMaximumRejected(t *testing.T) {
	svc, repo := newService(tenner)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1", Quantity: domain.MaxQuantity + 1})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if len(repo.lines) != 0 {
		t.Fatalf("no line should be written, got %+v", repo.lines)
	}

	item, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateItem(ctx, item.ID, domain.MaxQuantity+1); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument on update, got %v", err)
	}
	if repo.lines[0].Quantity != 1 {
		t.Fatalf("quantity should be unchanged, got %d", repo.lines[0].Quantity)
	}
}

func TestSessionIDsAreOpaque(t *testing.T) {
	svc, repo := newService(tenner)
	ctx := context.Background()
	if _, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: "s1"}); err != nil {
		t.Fatalf("add s1: %v", err)
	}
	if _, err := svc.AddToCart(ctx, AddInput{ProductID: "p1", SessionID: " s1"}); err != nil {
		t.Fatalf("add padded: %v", err)
	}
	if len(repo.lines) != 2 || repo.lines[1].SessionID != " s1" {
		t.Fatalf("padded session must get its own line, got %+v", repo.lines)
	}

	cart, err := svc.GetCart(ctx, " s1")
	if err != nil {
		t.Fatalf("get padded cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("unexpected padded cart %+v", cart.Items)
	}
}
