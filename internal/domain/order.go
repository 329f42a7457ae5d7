package domain

import "time"

// Payment methods accepted at checkout.
const (
	PaymentStripe = "Stripe"
	PaymentPayPal = "PayPal"
	PaymentCash   = "Cash"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentStripe, PaymentPayPal, PaymentCash:
		return true
	}
	return false
}

type Order struct {
	ID            string         `json:"_id"`
	UserID        string         `json:"userId"`
	UserLastName  string         `json:"userLastName"`
	Items         []OrderItem    `json:"orderItems"`
	PaymentMethod string         `json:"paymentMethod"`
	ItemsPrice    float64        `json:"itemsPrice"`
	TaxPrice      float64        `json:"taxPrice"`
	TotalPrice    float64        `json:"totalPrice"`
	IsPaid        bool           `json:"isPaid"`
	PaidAt        *time.Time     `json:"paidAt,omitempty"`
	PaymentResult *PaymentResult `json:"paymentResult,omitempty"`
	IsDelivered   bool           `json:"isDelivered"`
	DeliveredAt   *time.Time     `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// OrderItem is a line item frozen at order time.
type OrderItem struct {
	Key      string  `json:"_key"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

func (i OrderItem) LinePrice() float64 { return i.Price }
func (i OrderItem) LineQuantity() int  { return i.Quantity }

// PaymentResult is the provider confirmation stored on a paid order.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address,omitempty"`
}
