package category

import (
	"context"

	"hotelmart/internal/cache"
	"hotelmart/internal/domain"
	"hotelmart/internal/repository/category"
)

// DefaultNames is served when no categories have been stored yet.
var DefaultNames = []string{"Beverages", "Breads", "Cookies", "Danish", "Muffins"}

const cacheKey = "categories"

type Service struct {
	repo  category.Repository
	cache *cache.Cache
}

func New(repo category.Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns category names in display order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return cache.Fetch(ctx, s.cache, cacheKey, func(ctx context.Context) ([]string, error) {
		cats, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(cats) == 0 {
			return append([]string(nil), DefaultNames...), nil
		}
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		return names, nil
	})
}

func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	saved, err := s.repo.Upsert(ctx, c)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKey)
	return saved, nil
}
