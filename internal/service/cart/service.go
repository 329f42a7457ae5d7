package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelmart/internal/domain"
	"hotelmart/internal/pricing"
	"hotelmart/internal/service/auth"
	"hotelmart/internal/service/order"
	"hotelmart/internal/store"

	"github.com/sirupsen/logrus"
)

var (
	// ErrOutOfStock is returned when the requested quantity exceeds the product stock.
	ErrOutOfStock = domain.ErrOutOfStock
	// ErrNotLoggedIn is returned by operations that need a verified user session.
	ErrNotLoggedIn = errors.New("login required")
)

type productGetter interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type orderCreator interface {
	Create(ctx context.Context, caller order.Caller, in order.CreateInput) (string, error)
}

type tokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Service validates shopper intents and turns them into store actions.
// It never mutates state other than through Dispatch.
type Service struct {
	products           productGetter
	orders             orderCreator
	tokens             tokenVerifier
	logoutClearsMethod bool
	logger             logrus.FieldLogger
}

func New(products productGetter, orders orderCreator, tokens tokenVerifier, logoutClearsMethod bool, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		products:           products,
		orders:             orders,
		tokens:             tokens,
		logoutClearsMethod: logoutClearsMethod,
		logger:             logger,
	}
}

// Summary is the cart as shown on the cart and checkout pages.
type Summary struct {
	Items         []store.LineItem    `json:"cartItems"`
	ItemCount     int                 `json:"itemCount"`
	PaymentMethod store.PaymentMethod `json:"paymentMethod"`
	pricing.Totals
}

func (s *Service) Summary(st *store.Store) Summary {
	cart := st.State().Cart
	items := cart.Items
	if items == nil {
		items = []store.LineItem{}
	}
	return Summary{
		Items:         items,
		ItemCount:     pricing.ItemCount(items),
		PaymentMethod: cart.PaymentMethod,
		Totals:        pricing.ComputeTotals(items),
	}
}

// AddItem adds qty units of the product on top of what the cart already holds.
// qty below 1 counts as 1.
func (s *Service) AddItem(ctx context.Context, st *store.Store, productID string, qty int) (store.LineItem, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.products.Get(ctx, strings.TrimSpace(productID))
	if err != nil {
		return store.LineItem{}, err
	}
	if existing, ok := st.State().Cart.Find(p.ID); ok {
		qty += existing.Quantity
	}
	return s.put(st, p, qty)
}

// UpdateQuantity sets the absolute quantity of an item already in the cart.
func (s *Service) UpdateQuantity(ctx context.Context, st *store.Store, key string, qty int) (store.LineItem, error) {
	if qty < 1 {
		return store.LineItem{}, domain.Invalid("Quantity must be at least 1")
	}
	if _, ok := st.State().Cart.Find(key); !ok {
		return store.LineItem{}, domain.ErrNotFound
	}
	p, err := s.products.Get(ctx, key)
	if err != nil {
		return store.LineItem{}, err
	}
	return s.put(st, p, qty)
}

func (s *Service) put(st *store.Store, p *domain.Product, qty int) (store.LineItem, error) {
	if p.CountInStock < qty {
		return store.LineItem{}, ErrOutOfStock
	}
	item := store.LineItem{
		Key:          p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		Image:        p.Image,
		Quantity:     qty,
	}
	st.Dispatch(store.AddItem(item))
	return item, nil
}

func (s *Service) RemoveItem(st *store.Store, key string) {
	st.Dispatch(store.RemoveItem(store.LineItem{Key: key}))
}

func (s *Service) Clear(st *store.Store) {
	st.Dispatch(store.ClearCart())
	st.Forget(store.CookieCartItems)
}

func (s *Service) SavePaymentMethod(st *store.Store, method string) error {
	m, ok := store.ParsePaymentMethod(strings.TrimSpace(method))
	if !ok {
		return domain.Invalid("Please select a payment method")
	}
	st.Dispatch(store.SavePaymentMethod(m))
	return nil
}

func (s *Service) SetTheme(st *store.Store, dark bool) {
	if dark {
		st.Dispatch(store.ThemeOn())
		return
	}
	st.Dispatch(store.ThemeOff())
}

func (s *Service) Login(st *store.Store, u store.UserSession) {
	st.Dispatch(store.Login(u))
}

// Logout drops the user and the cart, plus the payment method when configured to.
func (s *Service) Logout(st *store.Store) {
	st.Dispatch(store.Logout())
	names := []string{store.CookieUserInfo, store.CookieCartItems}
	if s.logoutClearsMethod {
		names = append(names, store.CookiePaymentMethod)
	}
	st.Forget(names...)
}

// Caller verifies the session's token and returns the user it belongs to.
func (s *Service) Caller(st *store.Store) (order.Caller, error) {
	u := st.State().User
	if u == nil || u.Token == "" {
		return order.Caller{}, ErrNotLoggedIn
	}
	claims, err := s.tokens.Verify(u.Token)
	if err != nil {
		return order.Caller{}, ErrNotLoggedIn
	}
	return order.Caller{ID: claims.UserID(), LastName: claims.LastName, IsAdmin: claims.IsAdmin}, nil
}

// PlaceOrder submits the cart as an order and clears it on success. Lines are
// priced from the catalog, not from the cookie, and every quantity is checked
// against current stock. On any failure the state is left untouched.
func (s *Service) PlaceOrder(ctx context.Context, st *store.Store) (string, error) {
	caller, err := s.Caller(st)
	if err != nil {
		return "", err
	}
	cart := st.State().Cart
	if len(cart.Items) == 0 {
		return "", domain.Invalid("Cart is empty")
	}
	if cart.PaymentMethod == store.PaymentUnset {
		return "", domain.Invalid("Please select a payment method")
	}

	items, err := s.reprice(ctx, cart.Items)
	if err != nil {
		return "", err
	}
	totals := pricing.ComputeTotals(items)
	id, err := s.orders.Create(ctx, caller, order.CreateInput{
		Items:         items,
		PaymentMethod: string(cart.PaymentMethod),
		ItemsPrice:    totals.Subtotal,
		TaxPrice:      totals.Tax,
		TotalPrice:    totals.Total,
	})
	if err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}

	s.Clear(st)
	s.logger.WithFields(logrus.Fields{"order": id, "user": caller.ID}).Info("cart: order placed")
	return id, nil
}

func (s *Service) reprice(ctx context.Context, lines []store.LineItem) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, it := range lines {
		p, err := s.products.Get(ctx, it.Key)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("A product in your cart is no longer available")
		}
		if err != nil {
			return nil, err
		}
		if it.Quantity > p.CountInStock {
			return nil, ErrOutOfStock
		}
		items = append(items, domain.OrderItem{
			Key:      p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: it.Quantity,
			Image:    p.Image,
		})
	}
	return items, nil
}
