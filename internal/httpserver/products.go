package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productsvc "vibe-commerce/internal/service/product"
)

func (h *handler) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	created, err := h.products.Create(c.Request.Context(), productsvc.CreateInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*created))
}
