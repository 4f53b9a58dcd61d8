package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/znsio/specmatic-product-admin-go/internal/handlers"
	"github.com/znsio/specmatic-product-admin-go/internal/middleware"
	"github.com/znsio/specmatic-product-admin-go/internal/view"
)

type RouterConfig struct {
	Sessions    *view.Registry
	TokenCookie string
	LoginURL    string
	Locale      language.Tag
	Logger      *slog.Logger
}

func SetupRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), gin.Recovery())

	productController := &handlers.ProductController{
		Sessions: cfg.Sessions,
		LoginURL: cfg.LoginURL,
	}

	// Health check
	r.GET("/health", handlers.HealthCheck)

	admin := r.Group("/admin", middleware.RequireToken(cfg.TokenCookie, cfg.LoginURL, cfg.Locale))
	admin.GET("/fields", productController.Fields)

	// Product routes
	admin.GET("/products", productController.ListProducts)
	admin.GET("/products/state", productController.GetState)
	admin.POST("/products/new", productController.OpenNew)
	admin.POST("/products/:id/view", productController.OpenView)
	admin.POST("/products/:id/edit", productController.OpenEdit)

	// Working copy routes
	admin.PATCH("/products/working", productController.SetField)
	admin.PUT("/products/working/images/:index", productController.SetImage)
	admin.POST("/products/working/save", productController.Save)
	admin.POST("/products/working/cancel", productController.Cancel)

	// Delete routes
	admin.DELETE("/products/:id", productController.RequestDelete)
	admin.POST("/products/:id/delete/confirm", productController.ConfirmDelete)
	admin.POST("/products/:id/delete/cancel", productController.CancelDelete)

	return r
}
