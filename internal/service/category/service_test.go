package category

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelmart/internal/cache"
	"hotelmart/internal/domain"
	"hotelmart/internal/logging"
)

type stubRepo struct {
	cats  []domain.Category
	err   error
	calls int
}

func (s *stubRepo) List(context.Context) ([]domain.Category, error) {
	s.calls++
	return s.cats, s.err
}

func (s *stubRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.cats = append(s.cats, c)
	return &c, nil
}

func TestList_FallsBackToDefaults(t *testing.T) {
	svc := New(&stubRepo{}, nil)
	names, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Beverages", "Breads", "Cookies", "Danish", "Muffins"}, names)
}

func TestList_StoredNames(t *testing.T) {
	svc := New(&stubRepo{cats: []domain.Category{{Key: "tea", Name: "Tea"}, {Key: "cake", Name: "Cake"}}}, nil)
	names, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tea", "Cake"}, names)
}

func TestList_RepoError(t *testing.T) {
	boom := errors.New("db down")
	_, err := New(&stubRepo{err: boom}, nil).List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestList_CachedUntilUpsert(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &stubRepo{}
	svc := New(repo, cache.New(client, time.Minute, logging.Discard()))
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	_, err = svc.Upsert(ctx, domain.Category{Key: "tea", Name: "Tea"})
	require.NoError(t, err)
	names, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, []string{"Tea"}, names)
}
