// Package store holds the per-session storefront state and the named
// transitions that are the only way to change it.
package store

// PaymentMethod is the checkout payment choice. The zero value means unset.
type PaymentMethod string

const (
	PaymentUnset  PaymentMethod = ""
	PaymentStripe PaymentMethod = "Stripe"
	PaymentPayPal PaymentMethod = "PayPal"
	PaymentCash   PaymentMethod = "Cash"
)

// ParsePaymentMethod maps a persisted or submitted value to a PaymentMethod.
// Anything unrecognised is reported as not ok.
func ParsePaymentMethod(v string) (PaymentMethod, bool) {
	switch m := PaymentMethod(v); m {
	case PaymentStripe, PaymentPayPal, PaymentCash:
		return m, true
	}
	return PaymentUnset, false
}

// LineItem is one catalog item plus a quantity inside the cart. Key is unique
// within a cart.
type LineItem struct {
	Key          string  `json:"_key"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Image        string  `json:"image"`
	Quantity     int     `json:"quantity"`
}

func (i LineItem) LinePrice() float64 { return i.Price }
func (i LineItem) LineQuantity() int  { return i.Quantity }

// UserSession identifies the logged in guest. It is replaced wholesale on
// login and dropped on logout.
type UserSession struct {
	ID         string `json:"_id"`
	LastName   string `json:"lastName"`
	RoomNumber string `json:"roomNumber"`
	IsAdmin    bool   `json:"isAdmin"`
	Token      string `json:"token"`
}

type CartState struct {
	Items         []LineItem    `json:"cartItems"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// State is a snapshot of a shopper session.
type State struct {
	DarkMode bool         `json:"darkMode"`
	Cart     CartState    `json:"cart"`
	User     *UserSession `json:"userInfo"`
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	out := s
	if s.Cart.Items != nil {
		out.Cart.Items = append([]LineItem(nil), s.Cart.Items...)
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// Find returns the cart item with key.
func (c CartState) Find(key string) (LineItem, bool) {
	for _, it := range c.Items {
		if it.Key == key {
			return it, true
		}
	}
	return LineItem{}, false
}
