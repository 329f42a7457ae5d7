package httpserver

import (
	"errors"
	"net/http"
	"net/url"

	"hotelmart/internal/domain"
	"hotelmart/internal/payment/paypal"
	"hotelmart/internal/payment/stripe"
	"hotelmart/internal/service/auth"
	cartsvc "hotelmart/internal/service/cart"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to the storefront's {"message": ...} shape.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": auth.ErrInvalidCredentials.Error()})
	case errors.Is(err, cartsvc.ErrNotLoggedIn), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{
			"message":  "Please log in first",
			"redirect": "/login?redirect=" + url.QueryEscape(redirectTarget(c)),
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Not allowed"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "Room number is already registered"})
	case errors.Is(err, stripe.ErrNotConfigured), errors.Is(err, paypal.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Payment provider is not configured"})
	case errors.Is(err, paypal.ErrNotCompleted):
		c.JSON(http.StatusPaymentRequired, gin.H{"message": "Payment was not completed"})
	default:
		requestLogger(c).WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

// redirectTarget is the storefront page to return to after login.
func redirectTarget(c *gin.Context) string {
	if c.FullPath() == "/api/cart/place-order" {
		return "/placeorder"
	}
	return "/"
}
