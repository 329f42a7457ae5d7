package main

import (
	"context"
	"flag"
	"os"

	"hotelmart/internal/cache"
	"hotelmart/internal/config"
	"hotelmart/internal/db"
	"hotelmart/internal/logging"
	"hotelmart/internal/seed"

	"github.com/sirupsen/logrus"
)

func main() {
	var admin seed.Admin
	flag.StringVar(&admin.LastName, "admin-last-name", "FrontDesk", "Last name of the admin account")
	flag.StringVar(&admin.RoomNumber, "admin-room", "000", "Room number the admin logs in with")
	flag.Parse()
	admin.Password = os.Getenv("SEED_ADMIN_PASSWORD")

	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	catalogCache := dialCache(ctx, cfg, logger)
	if catalogCache != nil {
		defer catalogCache.Close()
	}

	if err := seed.Apply(ctx, pool, catalogCache, admin, logger); err != nil {
		logger.WithError(err).Fatal("seed apply")
	}

	logger.Info("seed applied")
}

// dialCache connects to the catalog cache the api reads from, if one is
// configured, so seeded rows replace its entries.
func dialCache(ctx context.Context, cfg config.Config, logger *logrus.Logger) *cache.Cache {
	if cfg.RedisURL == "" {
		return nil
	}
	c, err := cache.Dial(ctx, cfg.RedisURL, cfg.CatalogCacheTTL, logger)
	if err != nil {
		logger.WithError(err).Warn("catalog cache unavailable, entries expire on their own")
		return nil
	}
	return c
}
