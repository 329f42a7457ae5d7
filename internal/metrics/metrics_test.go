package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/api/products/:id", "404"))
	assert.Equal(t, 2.0, got)
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.OrderPlaced("PayPal")
	m.Payment("paypal", true)
	m.Payment("paypal", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced.WithLabelValues("PayPal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("paypal", "failure")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.OrderPlaced("Cash")
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hotelmart_orders_placed_total{payment_method="Cash"} 1`)
}
