// Package paypal captures approved PayPal orders.
package paypal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotelmart/internal/domain"

	"github.com/tidwall/gjson"
)

// ErrNotConfigured is returned when capture is attempted without a secret.
var ErrNotConfigured = errors.New("paypal is not configured")

// ErrNotCompleted is returned when PayPal reports a capture in any status but COMPLETED.
var ErrNotCompleted = errors.New("paypal capture not completed")

type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
}

func New(baseURL, clientID, secret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), clientID: clientID, secret: secret, http: httpClient}
}

// ClientID is the public id the storefront loads the PayPal SDK with. "sb" is the sandbox id.
func (c *Client) ClientID() string {
	if c.clientID == "" {
		return "sb"
	}
	return c.clientID
}

// Capture is the outcome of a capture call.
type Capture struct {
	Result domain.PaymentResult
	// Amount is the captured value in the order currency.
	Amount float64
	// ReferenceID and CustomID are what the storefront set on the purchase
	// unit when it created the PayPal order.
	ReferenceID string
	CustomID    string
}

// For reports whether the capture was created for the given store order.
func (c *Capture) For(orderID string) bool {
	return orderID != "" && (c.ReferenceID == orderID || c.CustomID == orderID)
}

// CaptureOrder captures a buyer-approved PayPal order.
func (c *Client) CaptureOrder(ctx context.Context, paypalOrderID string) (*Capture, error) {
	if c.secret == "" || c.clientID == "" || c.clientID == "sb" {
		return nil, ErrNotConfigured
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/checkout/orders/"+url.PathEscape(paypalOrderID)+"/capture", strings.NewReader("{}"))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PayPal-Request-Id", "capture-"+paypalOrderID)

	body, err := c.do(req, "capture order")
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	status := res.Get("status").String()
	if status != "COMPLETED" {
		return nil, fmt.Errorf("%w: status %q", ErrNotCompleted, status)
	}
	return &Capture{
		Result: domain.PaymentResult{
			ID:           res.Get("id").String(),
			Status:       status,
			EmailAddress: res.Get("payer.email_address").String(),
		},
		Amount:      res.Get("purchase_units.0.payments.captures.0.amount.value").Float(),
		ReferenceID: res.Get("purchase_units.0.reference_id").String(),
		CustomID:    res.Get("purchase_units.0.payments.captures.0.custom_id").String(),
	}, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, "oauth token")
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", errors.New("paypal: token response missing access_token")
	}
	return token, nil
}

func (c *Client) do(req *http.Request, what string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal: %s: %w", what, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("paypal: %s: read response: %w", what, err)
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "error_description").String()
		}
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("paypal: %s: %s", what, msg)
	}
	return body, nil
}
