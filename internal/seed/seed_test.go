package seed

import (
	"context"
	"os"
	"testing"

	"hotelmart/internal/logging"
	"hotelmart/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, users, products, categories RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	admin := Admin{LastName: "Desk", RoomNumber: "000", Password: "frontdesk"}
	for i := 0; i < 2; i++ {
		if err := Apply(ctx, pool, nil, admin, logging.Discard()); err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
	}

	var cats, products, admins int
	if err := pool.QueryRow(ctx, `SELECT (SELECT count(*) FROM categories), (SELECT count(*) FROM products), (SELECT count(*) FROM users WHERE is_admin)`).Scan(&cats, &products, &admins); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if cats != 5 || products != len(demoProducts) || admins != 1 {
		t.Fatalf("unexpected counts categories=%d products=%d admins=%d", cats, products, admins)
	}
}
