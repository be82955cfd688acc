package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartsvc "vibe-commerce/internal/service/cart"
)

func (h *handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	in := cartsvc.AddInput{ProductID: req.ProductID, SessionID: req.SessionID}
	if req.Qty != nil {
		in.Quantity = *req.Qty
	}
	item, err := h.carts.AddToCart(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartLineResponse(*item))
}

func (h *handler) getCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), c.Query("sessionId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

func (h *handler) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	item, err := h.carts.UpdateItem(c.Request.Context(), c.Param("id"), *req.Qty)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartLineResponse(*item))
}

func (h *handler) removeCartItem(c *gin.Context) {
	if err := h.carts.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
