// Package stripe creates hosted checkout sessions for orders paid by card.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotelmart/internal/domain"
	"hotelmart/internal/pricing"

	"github.com/tidwall/gjson"
)

// ErrNotConfigured is returned when no secret key was provided.
var ErrNotConfigured = errors.New("stripe is not configured")

const currency = "usd"

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func New(baseURL, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), secretKey: secretKey, http: httpClient}
}

// Session is a created checkout session; URL is where the shopper pays.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession prices every order item in cents, plus the tax as its own line.
func (c *Client) CreateCheckoutSession(ctx context.Context, o *domain.Order, successURL, cancelURL string) (*Session, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("client_reference_id", o.ID)
	form.Set("metadata[order_id]", o.ID)
	i := 0
	for _, it := range o.Items {
		addLine(form, i, it.Name, pricing.Cents(it.Price), it.Quantity)
		i++
	}
	if o.TaxPrice > 0 {
		addLine(form, i, "Tax", pricing.Cents(o.TaxPrice), 1)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", "order-"+o.ID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe: create session: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("stripe: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("stripe: create session: %s", msg)
	}
	res := gjson.ParseBytes(body)
	s := &Session{ID: res.Get("id").String(), URL: res.Get("url").String()}
	if s.ID == "" || s.URL == "" {
		return nil, errors.New("stripe: session response missing id or url")
	}
	return s, nil
}

func addLine(form url.Values, i int, name string, cents int64, qty int) {
	prefix := "line_items[" + strconv.Itoa(i) + "]"
	form.Set(prefix+"[price_data][currency]", currency)
	form.Set(prefix+"[price_data][product_data][name]", name)
	form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(cents, 10))
	form.Set(prefix+"[quantity]", strconv.Itoa(qty))
}
