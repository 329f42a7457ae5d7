package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelmart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID: "o1",
		Items: []domain.OrderItem{
			{Key: "a", Name: "Apple Muffin", Price: 4.99, Quantity: 2},
			{Key: "b", Name: "Bagel", Price: 10, Quantity: 1},
		},
		ItemsPrice: 19.98,
		TaxPrice:   3,
		TotalPrice: 22.98,
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "499", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "2", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "1000", r.PostForm.Get("line_items[1][price_data][unit_amount]"))
		assert.Equal(t, "Tax", r.PostForm.Get("line_items[2][price_data][product_data][name]"))
		assert.Equal(t, "300", r.PostForm.Get("line_items[2][price_data][unit_amount]"))
		assert.Equal(t, "o1", r.PostForm.Get("client_reference_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_123","url":"https://checkout.stripe.test/cs_123"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test", srv.Client())
	s, err := c.CreateCheckoutSession(context.Background(), testOrder(), "http://shop/order/o1?paid=1", "http://shop/order/o1")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", s.ID)
	assert.Equal(t, "https://checkout.stripe.test/cs_123", s.URL)
}

func TestCreateCheckoutSession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key provided"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "sk_bad", srv.Client()).CreateCheckoutSession(context.Background(), testOrder(), "s", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API Key provided")
}

func TestCreateCheckoutSession_NotConfigured(t *testing.T) {
	_, err := New("http://unused", "", nil).CreateCheckoutSession(context.Background(), testOrder(), "s", "c")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
