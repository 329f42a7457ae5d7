package httpserver

import (
	"context"
	"errors"
	"time"

	"hotelmart/internal/domain"
	"hotelmart/internal/metrics"
	"hotelmart/internal/payment/paypal"
	"hotelmart/internal/payment/stripe"
	"hotelmart/internal/service/auth"
	cartsvc "hotelmart/internal/service/cart"
	"hotelmart/internal/service/order"
	productsvc "hotelmart/internal/service/product"
	"hotelmart/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type productService interface {
	Search(ctx context.Context, in productsvc.SearchInput) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type categoryService interface {
	List(ctx context.Context) ([]string, error)
}

type cartService interface {
	Summary(st *store.Store) cartsvc.Summary
	AddItem(ctx context.Context, st *store.Store, productID string, qty int) (store.LineItem, error)
	UpdateQuantity(ctx context.Context, st *store.Store, key string, qty int) (store.LineItem, error)
	RemoveItem(st *store.Store, key string)
	Clear(st *store.Store)
	SavePaymentMethod(st *store.Store, method string) error
	SetTheme(st *store.Store, dark bool)
	Login(st *store.Store, u store.UserSession)
	Logout(st *store.Store)
	PlaceOrder(ctx context.Context, st *store.Store) (string, error)
}

type authService interface {
	Register(ctx context.Context, in auth.RegisterInput) (store.UserSession, error)
	Login(ctx context.Context, roomNumber, password string) (store.UserSession, error)
	Verify(token string) (auth.Claims, error)
}

type orderService interface {
	Create(ctx context.Context, caller order.Caller, in order.CreateInput) (string, error)
	Get(ctx context.Context, caller order.Caller, id string) (*domain.Order, error)
	History(ctx context.Context, caller order.Caller) ([]domain.Order, error)
	Pay(ctx context.Context, caller order.Caller, id string, result domain.PaymentResult) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, caller order.Caller, id string, result domain.PaymentResult) (*domain.Order, error)
	Deliver(ctx context.Context, caller order.Caller, id string) (*domain.Order, error)
}

type stripeClient interface {
	CreateCheckoutSession(ctx context.Context, o *domain.Order, successURL, cancelURL string) (*stripe.Session, error)
}

type paypalClient interface {
	ClientID() string
	CaptureOrder(ctx context.Context, paypalOrderID string) (*paypal.Capture, error)
}

// Deps bundles the services the router dispatches to.
type Deps struct {
	ProductSvc  productService
	CategorySvc categoryService
	CartSvc     cartService
	AuthSvc     authService
	OrderSvc    orderService
	Stripe      stripeClient
	PayPal      paypalClient
	Metrics     *metrics.Metrics
}

// Options holds HTTP-level settings taken from config.
type Options struct {
	CORSOrigins               []string
	CookieSecure              bool
	LogoutClearsPaymentMethod bool
	LoginRatePerSecond        int
	LoginBurst                int
	StorefrontURL             string
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CategorySvc == nil:
		return errors.New("category service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.AuthSvc == nil:
		return errors.New("auth service required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	case d.Stripe == nil || d.PayPal == nil:
		return errors.New("payment clients required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, db Pinger, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if opts.LoginRatePerSecond <= 0 {
		opts.LoginRatePerSecond = 1
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}

	router := gin.New()
	router.Use(requestID(logger), gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), deps.Metrics.Middleware())
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	h := &handlers{deps: deps, storefrontURL: opts.StorefrontURL}
	api := router.Group("/api")

	api.GET("/products", h.searchProducts)
	api.GET("/products/categories", h.listCategories)
	api.GET("/products/slug/:slug", h.getProductBySlug)
	api.GET("/products/:id", h.getProduct)
	api.GET("/keys/paypal", h.paypalClientID)

	session := api.Group("", sessionMiddleware(opts.CookieSecure, opts.LogoutClearsPaymentMethod))
	session.GET("/session", h.getSession)
	session.POST("/session/theme", h.setTheme)
	session.GET("/cart", h.getCart)
	session.POST("/cart/items", h.addCartItem)
	session.PUT("/cart/items/:key", h.updateCartItem)
	session.DELETE("/cart/items/:key", h.removeCartItem)
	session.DELETE("/cart", h.clearCart)
	session.PUT("/cart/payment-method", h.savePaymentMethod)
	session.POST("/cart/place-order", h.placeOrder)
	session.POST("/users/register", h.register)
	limiter := newLoginLimiter(rate.Limit(opts.LoginRatePerSecond), opts.LoginBurst, logger)
	session.POST("/users/login", limiter.middleware(), h.login)
	session.POST("/users/logout", h.logout)

	orders := api.Group("/orders", bearerAuth(deps.AuthSvc))
	orders.POST("", h.createOrder)
	orders.GET("/history", h.orderHistory)
	orders.GET("/:id", h.getOrder)
	orders.PUT("/:id/pay", h.payOrder)
	orders.PUT("/:id/deliver", h.deliverOrder)
	orders.POST("/:id/stripe", h.stripeCheckout)
	orders.POST("/:id/paypal/capture", h.paypalCapture)

	return router, nil
}

type handlers struct {
	deps          Deps
	storefrontURL string
}
