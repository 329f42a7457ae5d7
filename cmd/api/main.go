package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hotelmart/internal/cache"
	"hotelmart/internal/config"
	"hotelmart/internal/db"
	"hotelmart/internal/httpserver"
	"hotelmart/internal/logging"
	"hotelmart/internal/metrics"
	"hotelmart/internal/payment/paypal"
	"hotelmart/internal/payment/stripe"
	categoryrepo "hotelmart/internal/repository/category"
	orderrepo "hotelmart/internal/repository/order"
	productrepo "hotelmart/internal/repository/product"
	userrepo "hotelmart/internal/repository/user"
	authsvc "hotelmart/internal/service/auth"
	cartsvc "hotelmart/internal/service/cart"
	categorysvc "hotelmart/internal/service/category"
	ordersvc "hotelmart/internal/service/order"
	productsvc "hotelmart/internal/service/product"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "api")
	gin.SetMode(gin.ReleaseMode)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid config")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect to db")
	}
	defer dbpool.Close()

	var catalogCache *cache.Cache
	if cfg.RedisURL != "" {
		catalogCache, err = cache.Dial(ctx, cfg.RedisURL, cfg.CatalogCacheTTL, logger)
		if err != nil {
			logger.WithError(err).Warn("catalog cache disabled")
			catalogCache = nil
		} else {
			defer catalogCache.Close()
		}
	}

	productService := productsvc.New(productrepo.NewPostgres(dbpool, logger), catalogCache)
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool), catalogCache)
	authService := authsvc.New(userrepo.NewPostgres(dbpool, logger), cfg.JWTSecret, cfg.JWTTTL)
	orderService := ordersvc.New(orderrepo.NewPostgres(dbpool), productService, logger)
	cartService := cartsvc.New(productService, orderService, authService, cfg.LogoutClearsPaymentMethod, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categoryService,
		CartSvc:     cartService,
		AuthSvc:     authService,
		OrderSvc:    orderService,
		Stripe:      stripe.New(cfg.StripeAPIBase, cfg.StripeSecretKey, nil),
		PayPal:      paypal.New(cfg.PayPalAPIBase, cfg.PayPalClientID, cfg.PayPalSecret, nil),
		Metrics:     metrics.New(),
	}, httpserver.Options{
		CORSOrigins:               cfg.CORSOrigins,
		CookieSecure:              cfg.CookieSecure,
		LogoutClearsPaymentMethod: cfg.LogoutClearsPaymentMethod,
		LoginRatePerSecond:        cfg.LoginRatePerSecond,
		LoginBurst:                cfg.LoginBurst,
		StorefrontURL:             cfg.StorefrontURL,
	})
	if err != nil {
		logger.WithError(err).Fatal("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}
