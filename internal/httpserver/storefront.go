package httpserver

import (
	"net/http"

	"hotelmart/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type themeRequest struct {
	DarkMode bool `json:"darkMode"`
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type loginRequest struct {
	RoomNumber string `json:"roomNumber" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *handlers) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionStore(c).State())
}

func (h *handlers) setTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	st := sessionStore(c)
	h.deps.CartSvc.SetTheme(st, req.DarkMode)
	c.JSON(http.StatusOK, st.State())
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.CartSvc.Summary(sessionStore(c)))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId required"})
		return
	}
	st := sessionStore(c)
	if _, err := h.deps.CartSvc.AddItem(c.Request.Context(), st, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.deps.CartSvc.Summary(st))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "quantity required"})
		return
	}
	st := sessionStore(c)
	if _, err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), st, c.Param("key"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.deps.CartSvc.Summary(st))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	st := sessionStore(c)
	h.deps.CartSvc.RemoveItem(st, c.Param("key"))
	c.JSON(http.StatusOK, h.deps.CartSvc.Summary(st))
}

func (h *handlers) clearCart(c *gin.Context) {
	st := sessionStore(c)
	h.deps.CartSvc.Clear(st)
	c.JSON(http.StatusOK, h.deps.CartSvc.Summary(st))
}

func (h *handlers) savePaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	st := sessionStore(c)
	if err := h.deps.CartSvc.SavePaymentMethod(st, req.PaymentMethod); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.deps.CartSvc.Summary(st))
}

func (h *handlers) placeOrder(c *gin.Context) {
	st := sessionStore(c)
	method := string(st.State().Cart.PaymentMethod)
	id, err := h.deps.CartSvc.PlaceOrder(c.Request.Context(), st)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deps.Metrics.OrderPlaced(method)
	c.JSON(http.StatusCreated, gin.H{"orderId": id, "redirect": "/order/" + id})
}

func (h *handlers) register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	sess, err := h.deps.AuthSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deps.CartSvc.Login(sessionStore(c), sess)
	c.JSON(http.StatusCreated, sess)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomNumber and password required"})
		return
	}
	sess, err := h.deps.AuthSvc.Login(c.Request.Context(), req.RoomNumber, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deps.CartSvc.Login(sessionStore(c), sess)
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) logout(c *gin.Context) {
	h.deps.CartSvc.Logout(sessionStore(c))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
