package httpserver

import (
	"hotelmart/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const storeKey = "store"

// sessionMiddleware rebuilds the shopper's store from request cookies and
// persists every transition back as response cookies.
func sessionMiddleware(secure, logoutClearsPaymentMethod bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := requestLogger(c)
		st := store.New(store.LoadState(c.Request),
			store.WithPersister(store.NewCookieJar(c.Writer, secure, log)),
			store.WithLogoutClearsPaymentMethod(logoutClearsPaymentMethod),
			store.WithLogger(log),
		)
		unsubscribe := st.Subscribe(func(s store.State) {
			log.WithFields(logrus.Fields{
				"items":     len(s.Cart.Items),
				"logged_in": s.User != nil,
				"dark_mode": s.DarkMode,
			}).Debug("session: state changed")
		})
		defer unsubscribe()

		c.Set(storeKey, st)
		c.Next()
	}
}

func sessionStore(c *gin.Context) *store.Store {
	return c.MustGet(storeKey).(*store.Store)
}
