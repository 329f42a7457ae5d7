package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"hotelmart/internal/cache"
	"hotelmart/internal/config"
	"hotelmart/internal/db"
	"hotelmart/internal/importer"
	"hotelmart/internal/logging"
	categoryrepo "hotelmart/internal/repository/category"
	productrepo "hotelmart/internal/repository/product"
	categorysvc "hotelmart/internal/service/category"
	productsvc "hotelmart/internal/service/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to the product CSV (name,slug,category,price,countInStock,image,description,brand)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "importer")
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.WithError(err).Fatal("open file")
	}
	defer f.Close()

	var catalogCache *cache.Cache
	if cfg.RedisURL != "" {
		catalogCache, err = cache.Dial(ctx, cfg.RedisURL, cfg.CatalogCacheTTL, logger)
		if err != nil {
			logger.WithError(err).Warn("catalog cache unavailable, entries expire on their own")
			catalogCache = nil
		} else {
			defer catalogCache.Close()
		}
	}

	imp := importer.NewCSVImporter(f,
		productsvc.New(productrepo.NewPostgres(pool, logger), catalogCache),
		categorysvc.New(categoryrepo.NewPostgres(pool), catalogCache))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.WithError(err).WithField("imported", count).Fatal("import failed")
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
