package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutsvc "vibe-commerce/internal/service/checkout"
)

func (h *handler) placeOrder(c *gin.Context) {
	var req checkoutRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	receipt, err := h.checkout.Checkout(c.Request.Context(), checkoutsvc.Input{
		SessionID: req.SessionID,
		Customer:  checkoutsvc.Customer{Name: req.Customer.Name, Email: req.Customer.Email},
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.observeOrder(receipt.Total.InexactFloat64())
	c.JSON(http.StatusOK, toReceiptResponse(*receipt))
}

func (h *handler) getOrder(c *gin.Context) {
	order, err := h.checkout.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}
