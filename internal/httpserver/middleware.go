package httpserver

import (
	"net/http"
	"strings"
	"sync"

	"hotelmart/internal/service/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
	callerKey       = "caller"
)

// requestID tags each request with an id and a logger carrying it.
func requestID(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(loggerKey, logger.WithField("request_id", id))
		c.Next()
	}
}

func requestLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}

// bearerAuth requires a valid "Authorization: Bearer <jwt>" header.
func bearerAuth(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not supplied"})
			return
		}
		claims, err := svc.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		c.Set(callerKey, order.Caller{ID: claims.UserID(), LastName: claims.LastName, IsAdmin: claims.IsAdmin})
		c.Next()
	}
}

func callerFrom(c *gin.Context) order.Caller {
	v, _ := c.Get(callerKey)
	caller, _ := v.(order.Caller)
	return caller
}

// loginLimiter throttles login attempts per client IP.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   logrus.FieldLogger
}

const maxTrackedClients = 10000

func newLoginLimiter(r rate.Limit, burst int, logger logrus.FieldLogger) *loginLimiter {
	return &loginLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
		logger:   logger,
	}
}

func (l *loginLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

func (l *loginLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !l.get(key).Allow() {
			l.logger.WithFields(logrus.Fields{"client": key, "path": c.FullPath()}).Warn("login rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts, try again shortly"})
			return
		}
		c.Next()
	}
}
