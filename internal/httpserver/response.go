package httpserver

import (
	"time"

	"vibe-commerce/internal/domain"
	checkoutsvc "vibe-commerce/internal/service/checkout"
)

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// cartLineResponse is the shape returned by add, update and cart reads alike.
type cartLineResponse struct {
	ID        string              `json:"id"`
	ProductID string              `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	Products  cartProductResponse `json:"products"`
}

type cartProductResponse struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

type cartResponse struct {
	Items []cartLineResponse `json:"items"`
	Total float64            `json:"total"`
}

type orderItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type receiptResponse struct {
	OrderID   string              `json:"orderId"`
	Total     float64             `json:"total"`
	Timestamp time.Time           `json:"timestamp"`
	Items     []orderItemResponse `json:"items"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Customer  customerResponse    `json:"customer"`
	Total     float64             `json:"total"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

type customerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func toCartLineResponse(it domain.CartItem) cartLineResponse {
	return cartLineResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		Products: cartProductResponse{
			Name:     it.Name,
			Price:    it.Price.InexactFloat64(),
			ImageURL: it.ImageURL,
		},
	}
}

func toCartResponse(cart domain.Cart) cartResponse {
	items := make([]cartLineResponse, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, toCartLineResponse(it))
	}
	return cartResponse{Items: items, Total: cart.Total.InexactFloat64()}
}

func toOrderItems(items []domain.OrderItem) []orderItemResponse {
	out := make([]orderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal.InexactFloat64(),
		})
	}
	return out
}

func toReceiptResponse(r checkoutsvc.Receipt) receiptResponse {
	return receiptResponse{
		OrderID:   r.OrderID,
		Total:     r.Total.InexactFloat64(),
		Timestamp: r.Timestamp,
		Items:     toOrderItems(r.Items),
	}
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		Customer:  customerResponse{Name: o.CustomerName, Email: o.CustomerEmail},
		Total:     o.Total.InexactFloat64(),
		Items:     toOrderItems(o.Items),
		CreatedAt: o.CreatedAt,
	}
}
