// Package auth implements console sign-in: bcrypt password verification
// against the admin_users table and stateless HS256 session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/repo"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a session token fails verification for
// any reason (malformed, bad signature, expired).
var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies console session tokens.
type Service struct {
	users  repo.AdminUserRepo
	secret []byte
	ttl    time.Duration
}

// NewService constructs an auth Service. secret signs session tokens and must
// be non-empty; ttl bounds how long an issued session stays valid.
func NewService(users repo.AdminUserRepo, secret []byte, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

// Login verifies the email/password pair and returns a signed session token.
// Returns ErrInvalidCredentials when either part is wrong.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth.Service.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.Email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Service.Login: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning the subject email.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HashPassword produces a bcrypt hash for seeding admin accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth.HashPassword: %w", err)
	}
	return string(hash), nil
}
