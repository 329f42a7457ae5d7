package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates the bearer token could not be validated.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload handed to storefront clients.
type Claims struct {
	LastName   string `json:"lastName"`
	RoomNumber string `json:"roomNumber"`
	IsAdmin    bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// UserID is the subject the token was issued for.
func (c Claims) UserID() string { return c.Subject }

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenManager(secret string, ttl time.Duration) *tokenManager {
	return &tokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *tokenManager) Issue(userID, lastName, roomNumber string, isAdmin bool) (string, error) {
	now := m.now()
	claims := Claims{
		LastName:   lastName,
		RoomNumber: roomNumber,
		IsAdmin:    isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *tokenManager) Validate(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
