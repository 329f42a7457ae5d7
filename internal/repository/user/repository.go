package user

import (
	"context"

	"hotelmart/internal/domain"
)

// Repository persists and fetches guest accounts.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByRoomNumber(ctx context.Context, roomNumber string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
