package product

import (
	"context"
	"strconv"
	"strings"

	"hotelmart/internal/cache"
	"hotelmart/internal/domain"
	productrepo "hotelmart/internal/repository/product"
)

// filterAll is the storefront's "no filter" value for category, price and query.
const filterAll = "all"

type Service struct {
	repo  productrepo.Repository
	cache *cache.Cache
}

// New builds a Service. c may be nil to disable caching.
func New(repo productrepo.Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// SearchInput mirrors the storefront search query string.
type SearchInput struct {
	Category string `form:"category"`
	Query    string `form:"query"`
	// Price is "min-max"; either bound may be empty.
	Price string `form:"price"`
	Sort  string `form:"sort"`
}

func (s *Service) Search(ctx context.Context, in SearchInput) ([]domain.Product, error) {
	q := productrepo.Query{
		Category: normalizeFilter(in.Category),
		Text:     normalizeFilter(in.Query),
		Sort:     productrepo.SortDefault,
	}
	switch in.Sort {
	case productrepo.SortLowest, productrepo.SortHighest, productrepo.SortTopRated, productrepo.SortNewest:
		q.Sort = in.Sort
	}
	if price := normalizeFilter(in.Price); price != "" {
		min, max, err := parsePriceRange(price)
		if err != nil {
			return nil, err
		}
		q.MinPrice, q.MaxPrice = min, max
	}
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return cache.Fetch(ctx, s.cache, "product:id:"+id, func(ctx context.Context) (*domain.Product, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return cache.Fetch(ctx, s.cache, "product:slug:"+slug, func(ctx context.Context) (*domain.Product, error) {
		return s.repo.GetBySlug(ctx, slug)
	})
}

// Upsert stores p and drops its cached copies.
func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, "product:id:"+saved.ID, "product:slug:"+saved.Slug)
	return saved, nil
}

func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, filterAll) {
		return ""
	}
	return v
}

func parsePriceRange(v string) (*float64, *float64, error) {
	lo, hi, ok := strings.Cut(v, "-")
	if !ok {
		return nil, nil, domain.Invalid("price must look like min-max")
	}
	min, err := parseBound(lo)
	if err != nil {
		return nil, nil, err
	}
	max, err := parseBound(hi)
	if err != nil {
		return nil, nil, err
	}
	if min != nil && max != nil && *min > *max {
		return nil, nil, domain.Invalid("price range is inverted")
	}
	return min, max, nil
}

func parseBound(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return nil, domain.Invalid("invalid price bound " + strconv.Quote(v))
	}
	return &f, nil
}
