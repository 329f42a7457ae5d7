package product

import (
	"context"

	"hotelmart/internal/domain"
)

// Sort orders for List.
const (
	SortDefault  = "default"
	SortLowest   = "lowest"
	SortHighest  = "highest"
	SortTopRated = "toprated"
	SortNewest   = "newest"
)

// Query narrows a catalog listing. Empty fields do not filter.
type Query struct {
	Category string
	Text     string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

type Repository interface {
	List(ctx context.Context, q Query) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
