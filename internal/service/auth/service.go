package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelmart/internal/domain"
	userrepo "hotelmart/internal/repository/user"
	"hotelmart/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when room number/password do not match.
var ErrInvalidCredentials = errors.New("Invalid room number or password")

const (
	lastNameMin = 2
	passwordMin = 6
	roomDigits  = 3
)

// Service handles guest registration, login and bearer token checks.
type Service struct {
	repo   userrepo.Repository
	tokens *tokenManager
	cost   int
}

func New(repo userrepo.Repository, secret string, ttl time.Duration) *Service {
	return &Service{
		repo:   repo,
		tokens: newTokenManager(secret, ttl),
		cost:   bcrypt.DefaultCost,
	}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	LastName        string `json:"lastName"`
	RoomNumber      string `json:"roomNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (in RegisterInput) validate() error {
	if len([]rune(strings.TrimSpace(in.LastName))) < lastNameMin {
		return domain.Invalid(fmt.Sprintf("Last name must be at least %d characters", lastNameMin))
	}
	if !isRoomNumber(strings.TrimSpace(in.RoomNumber)) {
		return domain.Invalid(fmt.Sprintf("Room number must be %d digits", roomDigits))
	}
	if len(in.Password) < passwordMin {
		return domain.Invalid(fmt.Sprintf("Password must be at least %d characters", passwordMin))
	}
	if in.Password != in.ConfirmPassword {
		return domain.Invalid("Passwords don't match")
	}
	return nil
}

// Register creates a guest account and returns a logged in session.
func (s *Service) Register(ctx context.Context, in RegisterInput) (store.UserSession, error) {
	if err := in.validate(); err != nil {
		return store.UserSession{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return store.UserSession{}, err
	}
	u, err := s.repo.Create(ctx, domain.User{
		LastName:     strings.TrimSpace(in.LastName),
		RoomNumber:   strings.TrimSpace(in.RoomNumber),
		PasswordHash: string(hashed),
	})
	if err != nil {
		return store.UserSession{}, err
	}
	return s.session(u)
}

// Login checks credentials and returns a session carrying a fresh token.
func (s *Service) Login(ctx context.Context, roomNumber, password string) (store.UserSession, error) {
	u, err := s.repo.GetByRoomNumber(ctx, strings.TrimSpace(roomNumber))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return store.UserSession{}, ErrInvalidCredentials
		}
		return store.UserSession{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return store.UserSession{}, ErrInvalidCredentials
	}
	return s.session(u)
}

// Verify validates a bearer token.
func (s *Service) Verify(token string) (Claims, error) {
	return s.tokens.Validate(strings.TrimSpace(token))
}

func (s *Service) session(u *domain.User) (store.UserSession, error) {
	token, err := s.tokens.Issue(u.ID, u.LastName, u.RoomNumber, u.IsAdmin)
	if err != nil {
		return store.UserSession{}, err
	}
	return store.UserSession{
		ID:         u.ID,
		LastName:   u.LastName,
		RoomNumber: u.RoomNumber,
		IsAdmin:    u.IsAdmin,
		Token:      token,
	}, nil
}

func isRoomNumber(v string) bool {
	if len(v) != roomDigits {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
