package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelmart/internal/cache"
	"hotelmart/internal/domain"
	categoryrepo "hotelmart/internal/repository/category"
	productrepo "hotelmart/internal/repository/product"
	userrepo "hotelmart/internal/repository/user"
	categorysvc "hotelmart/internal/service/category"
	productsvc "hotelmart/internal/service/product"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Admin is the front-desk account created by Apply.
type Admin struct {
	LastName   string
	RoomNumber string
	Password   string
}

var demoProducts = []domain.Product{
	{Name: "Fresh Orange Juice", Slug: "fresh-orange-juice", Category: "Beverages", Price: 3.5, CountInStock: 20, Brand: "Lobby Bar", Description: "Squeezed every morning."},
	{Name: "Sourdough Loaf", Slug: "sourdough-loaf", Category: "Breads", Price: 6.25, CountInStock: 8, Brand: "Lobby Bakery", Description: "Slow fermented, crusty."},
	{Name: "Chocolate Chip Cookie", Slug: "chocolate-chip-cookie", Category: "Cookies", Price: 1.99, CountInStock: 40, Brand: "Lobby Bakery", Description: "Baked in house."},
	{Name: "Cherry Danish", Slug: "cherry-danish", Category: "Danish", Price: 3.75, CountInStock: 12, Brand: "Lobby Bakery", Description: "Flaky pastry, sour cherries."},
	{Name: "Blueberry Muffin", Slug: "blueberry-muffin", Category: "Muffins", Price: 2.95, CountInStock: 15, Brand: "Lobby Bakery", Description: "Wild blueberries."},
}

// Apply inserts categories, demo products and the admin account. It is
// idempotent: existing rows are updated and an existing admin is left alone.
// Catalog writes go through the services so c, when set, drops stale entries.
func Apply(ctx context.Context, pool *pgxpool.Pool, c *cache.Cache, admin Admin, logger logrus.FieldLogger) error {
	categories := categorysvc.New(categoryrepo.NewPostgres(pool), c)
	for _, name := range categorysvc.DefaultNames {
		if _, err := categories.Upsert(ctx, domain.Category{Key: categoryKey(name), Name: name}); err != nil {
			return fmt.Errorf("upsert category %s: %w", name, err)
		}
	}

	products := productsvc.New(productrepo.NewPostgres(pool, logger), c)
	for _, p := range demoProducts {
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if admin.Password == "" {
		logger.Warn("seed: no admin password given, skipping admin account")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = userrepo.NewPostgres(pool, logger).Create(ctx, domain.User{
		LastName:     admin.LastName,
		RoomNumber:   admin.RoomNumber,
		PasswordHash: string(hash),
		IsAdmin:      true,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		logger.WithField("room", admin.RoomNumber).Info("seed: admin already present")
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func categoryKey(name string) string {
	return strings.ToLower(name)
}
