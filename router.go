package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/judyrop/shop-api/handlers"
	"github.com/judyrop/shop-api/middleware"
	"github.com/judyrop/shop-api/store"
	"github.com/judyrop/shop-api/validation"
)

// RouterConfig holds the optional parts of the router.
type RouterConfig struct {
	AllowedOrigins []string
	// Verifier, when set, guards every POST and DELETE route.
	Verifier middleware.TokenVerifier
}

func SetupRouter(db *gorm.DB, log zerolog.Logger, rc RouterConfig) *gin.Engine {
	validation.Setup()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(),
		middleware.CORS(rc.AllowedOrigins),
	)

	h := handlers.New(store.New(db))

	r.GET("/health", h.Health)

	write := []gin.HandlerFunc{}
	if rc.Verifier != nil {
		write = append(write, middleware.Auth(rc.Verifier))
	}
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), fn)
	}

	api := r.Group("/api")

	categories := api.Group("/categories")
	categories.GET("/", h.ListCategories)
	categories.GET("/:id", h.GetCategory)
	categories.POST("/", guarded(h.CreateCategory)...)
	categories.DELETE("/:id", guarded(h.DeleteCategory)...)

	products := api.Group("/products")
	products.GET("/", h.ListProducts)
	products.GET("/:id", h.GetProduct)
	products.POST("/", guarded(h.CreateProduct)...)
	products.DELETE("/:id", guarded(h.DeleteProduct)...)

	clients := api.Group("/clients")
	clients.GET("/", h.ListClients)
	clients.GET("/:id", h.GetClient)
	clients.GET("/:id/orders", h.ListClientOrders)
	clients.POST("/", guarded(h.CreateClient)...)
	clients.DELETE("/:id", guarded(h.DeleteClient)...)

	orders := api.Group("/orders")
	orders.GET("/", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/", guarded(h.CreateOrder)...)
	orders.DELETE("/:id", guarded(h.DeleteOrder)...)

	return r
}
