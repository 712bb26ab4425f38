package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nafcode/product-registry/internal/services"
	"github.com/nafcode/product-registry/internal/store"
)

type VerificationHandler struct {
	productService *services.ProductService
}

func NewVerificationHandler(productService *services.ProductService) *VerificationHandler {
	return &VerificationHandler{
		productService: productService,
	}
}

// GET /verify/:productId
func (h *VerificationHandler) VerifyProduct(c *gin.Context) {
	rawID := c.Param("productId")

	product, err := h.productService.Verify(c.Request.Context(), rawID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.HTML(http.StatusNotFound, "verify_not_found.html", nil)
			return
		}

		logrus.WithError(err).WithField("product_id", rawID).
			Error("Product verification failed")
		c.HTML(http.StatusInternalServerError, "verify_error.html", nil)
		return
	}

	registered := "No"
	if product.Registered {
		registered = "Yes"
	}

	c.HTML(http.StatusOK, "verify_result.html", gin.H{
		"Name":       product.Name,
		"Company":    product.Company,
		"Registered": registered,
	})
}
