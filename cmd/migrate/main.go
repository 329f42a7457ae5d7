package main

import (
	"context"

	"hotelmart/internal/config"
	"hotelmart/internal/db"
	"hotelmart/internal/logging"
	"hotelmart/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.WithError(err).Warn("read schema version")
	}
	logger.WithField("version", version).WithField("dirty", dirty).Info("migrations applied")
}
