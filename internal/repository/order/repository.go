package order

import (
	"context"
	"time"

	"hotelmart/internal/domain"
)

type Repository interface {
	// Create stores the order and its items in one transaction and returns the new id.
	Create(ctx context.Context, o domain.Order) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string, at time.Time, result domain.PaymentResult) error
	MarkDelivered(ctx context.Context, id string, at time.Time) error
}
