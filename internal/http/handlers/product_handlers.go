package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
)

// MsgInvalidProductID is returned for a non-numeric product id
const MsgInvalidProductID = "Invalid product id."

// ProductHandlers handles catalog HTTP requests
type ProductHandlers struct {
	productSvc domain.ProductService
}

// NewProductHandlers creates new product handlers
func NewProductHandlers(productSvc domain.ProductService) *ProductHandlers {
	return &ProductHandlers{productSvc: productSvc}
}

// GetAll lists every product, active or not
func (h *ProductHandlers) GetAll(c *gin.Context) {
	products, err := h.productSvc.GetAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetActive lists products that have not been deleted
func (h *ProductHandlers) GetActive(c *gin.Context) {
	products, err := h.productSvc.GetActive(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Search lists active products whose name contains the name query parameter
func (h *ProductHandlers) Search(c *gin.Context) {
	products, err := h.productSvc.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetByID returns a single product
func (h *ProductHandlers) GetByID(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.productSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create adds a product and points Location at it
func (h *ProductHandlers) Create(c *gin.Context) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(domain.NewValidationError(MsgInvalidPayload))
		return
	}

	product, err := h.productSvc.Create(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/products/%d", product.ID))
	c.JSON(http.StatusCreated, product)
}

// Update replaces the writable fields of a product
func (h *ProductHandlers) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(domain.NewValidationError(MsgInvalidPayload))
		return
	}

	if err := h.productSvc.Update(c.Request.Context(), id, input); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete deactivates a product
func (h *ProductHandlers) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.productSvc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		_ = c.Error(domain.NewValidationError(MsgInvalidProductID))
		return 0, false
	}
	return uint(id), true
}
