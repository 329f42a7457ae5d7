package httpserver

import (
	"net/http"

	productsvc "hotelmart/internal/service/product"

	"github.com/gin-gonic/gin"
)

func (h *handlers) searchProducts(c *gin.Context) {
	var in productsvc.SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid query"})
		return
	}
	products, err := h.deps.ProductSvc.Search(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "countProducts": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) getProductBySlug(c *gin.Context) {
	p, err := h.deps.ProductSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listCategories(c *gin.Context) {
	names, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *handlers) paypalClientID(c *gin.Context) {
	c.String(http.StatusOK, h.deps.PayPal.ClientID())
}
