package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelmart/internal/domain"
	"hotelmart/internal/pricing"
	orderrepo "hotelmart/internal/repository/order"

	"github.com/sirupsen/logrus"
)

// Caller is the authenticated user an operation runs on behalf of.
type Caller struct {
	ID       string
	LastName string
	IsAdmin  bool
}

// ErrPaymentReused is returned when a provider payment is already recorded on another order.
var ErrPaymentReused = &domain.ValidationError{Message: "Payment has already been applied to another order"}

type productGetter interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     orderrepo.Repository
	products productGetter
	logger   logrus.FieldLogger
	now      func() time.Time
}

func New(repo orderrepo.Repository, products productGetter, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{repo: repo, products: products, logger: logger, now: time.Now}
}

// CreateInput is an order submission. The totals are what the client displayed.
type CreateInput struct {
	Items         []domain.OrderItem `json:"orderItems"`
	PaymentMethod string             `json:"paymentMethod"`
	ItemsPrice    float64            `json:"itemsPrice"`
	TaxPrice      float64            `json:"taxPrice"`
	TotalPrice    float64            `json:"totalPrice"`
}

// Create stores a new unpaid order and returns its id. Item names, prices and
// images come from the catalog and each quantity must be in stock. Totals are
// recomputed from those prices; submitted ones may differ by at most one cent.
func (s *Service) Create(ctx context.Context, caller Caller, in CreateInput) (string, error) {
	if caller.ID == "" {
		return "", domain.ErrForbidden
	}
	if len(in.Items) == 0 {
		return "", domain.Invalid("Cart is empty")
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return "", domain.Invalid("Please select a payment method")
	}
	seen := make(map[string]struct{}, len(in.Items))
	for _, it := range in.Items {
		if strings.TrimSpace(it.Key) == "" || it.Quantity < 1 || it.Price < 0 {
			return "", domain.Invalid("Invalid order item")
		}
		if _, dup := seen[it.Key]; dup {
			return "", domain.Invalid("Duplicate order item " + it.Key)
		}
		seen[it.Key] = struct{}{}
	}
	items, err := s.price(ctx, in.Items)
	if err != nil {
		return "", err
	}

	totals := pricing.ComputeTotals(items)
	if !withinCent(totals.Subtotal, in.ItemsPrice) ||
		!withinCent(totals.Tax, in.TaxPrice) ||
		!withinCent(totals.Total, in.TotalPrice) {
		s.logger.WithFields(logrus.Fields{
			"user":          caller.ID,
			"client_total":  in.TotalPrice,
			"derived_total": totals.Total,
		}).Warn("order: submitted totals disagree")
		return "", domain.Invalid("Order totals do not match cart")
	}

	id, err := s.repo.Create(ctx, domain.Order{
		UserID:        caller.ID,
		UserLastName:  caller.LastName,
		Items:         items,
		PaymentMethod: in.PaymentMethod,
		ItemsPrice:    totals.Subtotal,
		TaxPrice:      totals.Tax,
		TotalPrice:    totals.Total,
	})
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"order": id, "user": caller.ID, "total": totals.Total}).Info("order: created")
	return id, nil
}

// Get returns an order visible to caller: its owner or an admin.
func (s *Service) Get(ctx context.Context, caller Caller, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != caller.ID && !caller.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func (s *Service) History(ctx context.Context, caller Caller) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, caller.ID)
}

// Pay records a payment settled outside the online providers, such as cash at
// the front desk. Admin only.
func (s *Service) Pay(ctx context.Context, caller Caller, id string, result domain.PaymentResult) (*domain.Order, error) {
	if !caller.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.markPaid(ctx, caller, id, result)
}

// ConfirmPayment records a payment a provider has already confirmed for this
// order. The owner or an admin may confirm.
func (s *Service) ConfirmPayment(ctx context.Context, caller Caller, id string, result domain.PaymentResult) (*domain.Order, error) {
	return s.markPaid(ctx, caller, id, result)
}

func (s *Service) markPaid(ctx context.Context, caller Caller, id string, result domain.PaymentResult) (*domain.Order, error) {
	if strings.TrimSpace(result.ID) == "" {
		return nil, domain.Invalid("Payment result id is required")
	}
	o, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, domain.Invalid("Order is already paid")
	}
	if err := s.repo.MarkPaid(ctx, o.ID, s.now().UTC(), result); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.WithFields(logrus.Fields{"order": o.ID, "payment": result.ID}).Warn("order: payment already used")
			return nil, ErrPaymentReused
		}
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"order": o.ID, "payment": result.ID, "status": result.Status}).Info("order: paid")
	return s.repo.GetByID(ctx, o.ID)
}

// Deliver marks the order delivered. Admin only.
func (s *Service) Deliver(ctx context.Context, caller Caller, id string) (*domain.Order, error) {
	if !caller.IsAdmin {
		return nil, domain.ErrForbidden
	}
	if err := s.repo.MarkDelivered(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mark order delivered: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) price(ctx context.Context, in []domain.OrderItem) ([]domain.OrderItem, error) {
	out := make([]domain.OrderItem, 0, len(in))
	for _, it := range in {
		p, err := s.products.Get(ctx, it.Key)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("Unknown product " + it.Key)
		}
		if err != nil {
			return nil, fmt.Errorf("load product %s: %w", it.Key, err)
		}
		if it.Quantity > p.CountInStock {
			return nil, domain.ErrOutOfStock
		}
		out = append(out, domain.OrderItem{
			Key:      p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: it.Quantity,
			Image:    p.Image,
		})
	}
	return out, nil
}

func withinCent(derived, submitted float64) bool {
	d := pricing.Cents(derived) - pricing.Cents(submitted)
	return d >= -1 && d <= 1
}
