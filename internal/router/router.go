package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nafcode/product-registry/internal/config"
	"github.com/nafcode/product-registry/internal/handlers"
	"github.com/nafcode/product-registry/internal/middleware"
	"github.com/nafcode/product-registry/internal/services"
	"github.com/nafcode/product-registry/internal/store"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize collaborators
	productStore := store.NewProductStore(db)
	encoder := services.NewQRCodeEncoder()
	images, err := services.NewImageStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	productService := services.NewProductService(productStore, encoder, images, cfg.App.PublicBaseURL)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	verificationHandler := handlers.NewVerificationHandler(productService)

	// Initialize Gin router
	r := gin.New()

	// Identifiers may carry percent-encoded slashes (e.g. /verify/AB%2F12).
	// Match on the raw path so the encoded segment stays a single path
	// parameter; gin still unescapes the value before the handler sees it.
	r.UseRawPath = true

	tmpl, err := handlers.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Registration and verification
	r.POST("/register-product", productHandler.RegisterProduct)
	r.GET("/verify/:productId", verificationHandler.VerifyProduct)

	// Generated code images
	r.Static(cfg.App.QRPublicPath, cfg.App.QRCodeDir)

	// Catch-all 404
	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "route_not_found.html", nil)
	})

	return r, nil
}
