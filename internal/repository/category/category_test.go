package category

import (
	"context"
	"os"
	"testing"

	"hotelmart/internal/domain"
	"hotelmart/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE categories RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewPostgres(pool)
	for _, c := range []domain.Category{{Key: "muffins", Name: "Muffins"}, {Key: "breads", Name: "Breads"}} {
		if _, err := repo.Upsert(ctx, c); err != nil {
			t.Fatalf("Upsert %s: %v", c.Key, err)
		}
	}
	renamed, err := repo.Upsert(ctx, domain.Category{Key: "breads", Name: "Artisan Breads"})
	if err != nil {
		t.Fatalf("Upsert rename: %v", err)
	}
	if renamed.ID == "" {
		t.Fatalf("expected id")
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
	if list[0].Name != "Artisan Breads" || list[1].Name != "Muffins" {
		t.Fatalf("unexpected order %+v", list)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
