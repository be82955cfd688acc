package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vibe-commerce/internal/domain"
	cartsvc "vibe-commerce/internal/service/cart"
	checkoutsvc "vibe-commerce/internal/service/checkout"
	productsvc "vibe-commerce/internal/service/product"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

type cartService interface {
	AddToCart(ctx context.Context, in cartsvc.AddInput) (*domain.CartItem, error)
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpdateItem(ctx context.Context, id string, qty int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, id string) error
}

type checkoutService interface {
	Checkout(ctx context.Context, in checkoutsvc.Input) (*checkoutsvc.Receipt, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
}

// Deps groups the services the handlers call. Metrics is optional.
type Deps struct {
	ProductSvc  productService
	CartSvc     cartService
	CheckoutSvc checkoutService
	Metrics     *Metrics
}

type handler struct {
	logger   *log.Logger
	products productService
	carts    cartService
	checkout checkoutService
	metrics  *Metrics
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, store Pinger, deps Deps, opts Options) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	registerJSONFieldNames()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	h := &handler{
		logger:   logger,
		products: deps.ProductSvc,
		carts:    deps.CartSvc,
		checkout: deps.CheckoutSvc,
		metrics:  deps.Metrics,
	}

	basePath := "/" + strings.Trim(opts.BasePath, "/")
	api := router.Group(basePath)
	api.GET("/health", healthHandler)
	api.GET("/ready", readyHandler(store))

	api.GET("/products", h.listProducts)
	api.POST("/products", h.createProduct)

	api.POST("/cart", h.addToCart)
	api.GET("/cart", h.getCart)
	api.PATCH("/cart/:id", h.updateCartItem)
	api.DELETE("/cart/:id", h.removeCartItem)

	api.POST("/checkout", h.placeOrder)
	api.GET("/orders/:id", h.getOrder)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
