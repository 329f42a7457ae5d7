package httpserver

import (
	"net/http"
	"strings"

	"hotelmart/internal/domain"
	"hotelmart/internal/pricing"
	"hotelmart/internal/service/order"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type paypalCaptureRequest struct {
	PayPalOrderID string `json:"paypalOrderId" binding:"required"`
}

func (h *handlers) createOrder(c *gin.Context) {
	var in order.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	id, err := h.deps.OrderSvc.Create(c.Request.Context(), callerFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deps.Metrics.OrderPlaced(in.PaymentMethod)
	c.JSON(http.StatusCreated, gin.H{"_id": id})
}

func (h *handlers) orderHistory(c *gin.Context) {
	orders, err := h.deps.OrderSvc.History(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.deps.OrderSvc.Get(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// payOrder records a front-desk settlement. The service only lets admins do it.
func (h *handlers) payOrder(c *gin.Context) {
	var result domain.PaymentResult
	if err := c.ShouldBindJSON(&result); err != nil || strings.TrimSpace(result.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "payment result id required"})
		return
	}
	o, err := h.deps.OrderSvc.Pay(c.Request.Context(), callerFrom(c), c.Param("id"), result)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order paid", "order": o})
}

func (h *handlers) deliverOrder(c *gin.Context) {
	o, err := h.deps.OrderSvc.Deliver(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order delivered", "order": o})
}

func (h *handlers) stripeCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	o, err := h.deps.OrderSvc.Get(ctx, callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if o.IsPaid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order is already paid"})
		return
	}
	orderURL := strings.TrimRight(h.storefrontURL, "/") + "/order/" + o.ID
	sess, err := h.deps.Stripe.CreateCheckoutSession(ctx, o, orderURL+"?paid=stripe", orderURL)
	h.deps.Metrics.Payment("stripe", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) paypalCapture(c *gin.Context) {
	var req paypalCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "paypalOrderId required"})
		return
	}
	ctx := c.Request.Context()
	caller := callerFrom(c)
	o, err := h.deps.OrderSvc.Get(ctx, caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	capture, err := h.deps.PayPal.CaptureOrder(ctx, req.PayPalOrderID)
	if err != nil {
		h.deps.Metrics.Payment("paypal", false)
		respondError(c, err)
		return
	}
	if !capture.For(o.ID) {
		h.deps.Metrics.Payment("paypal", false)
		requestLogger(c).WithFields(logrus.Fields{
			"order":        o.ID,
			"paypal_order": req.PayPalOrderID,
			"reference_id": capture.ReferenceID,
		}).Error("paypal capture belongs to another order")
		c.JSON(http.StatusBadRequest, gin.H{"message": "PayPal payment does not belong to this order"})
		return
	}
	if !pricing.SameCents(capture.Amount, o.TotalPrice) {
		h.deps.Metrics.Payment("paypal", false)
		requestLogger(c).WithFields(logrus.Fields{
			"order":    o.ID,
			"captured": capture.Amount,
			"expected": o.TotalPrice,
		}).Error("paypal capture amount mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Captured amount does not match order total"})
		return
	}
	paid, err := h.deps.OrderSvc.ConfirmPayment(ctx, caller, o.ID, capture.Result)
	h.deps.Metrics.Payment("paypal", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order paid", "order": paid})
}
