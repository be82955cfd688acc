package httpserver

type createProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       *int   `json:"qty" binding:"omitempty,min=1,max=2147483647"`
	SessionID string `json:"sessionId" binding:"required"`
}

type updateCartItemRequest struct {
	Qty *int `json:"qty" binding:"required,min=1,max=2147483647"`
}

type checkoutRequest struct {
	SessionID string          `json:"sessionId" binding:"required"`
	Customer  customerRequest `json:"customer"`
}

type customerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}
