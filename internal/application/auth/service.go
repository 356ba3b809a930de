package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenaudit/esg-insight/internal/application"
	"github.com/greenaudit/esg-insight/internal/domain/users"
)

// ErrInvalidCredentials covers both unknown usernames and wrong
// passwords so login failures stay indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned for malformed, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

const bcryptCost = 10

// Claims carried inside issued tokens
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service implements registration, login and token verification.
type Service struct {
	Repo     users.Repository
	Secret   []byte
	TokenTTL time.Duration
	Clock    application.Clock
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (*users.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.New("username, email and password are required")
	}

	if existing, err := s.Repo.GetByUsernameOrEmail(ctx, username, email); err != nil && !errors.Is(err, users.ErrNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, users.ErrExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.Repo.Create(ctx, &users.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    s.Clock.Now(),
	})
}

// Login verifies the password and issues a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (*users.User, string, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := s.Clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return u, signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
