// Package auth issues and verifies the bearer tokens used by the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lbrossard/indivis/internal/estate"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Identity is the authenticated owner attached to a request context.
type Identity struct {
	OwnerID uuid.UUID
	Role    estate.Role
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	owners   *estate.Service
	secret   []byte
	tokenTTL time.Duration
}

func NewService(owners *estate.Service, secret string, tokenTTL time.Duration) *Service {
	return &Service{owners: owners, secret: []byte(secret), tokenTTL: tokenTTL}
}

// HashPassword derives a bcrypt hash for storage on the owner record.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

// Login checks the owner's password and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *estate.Owner, error) {
	owner, err := s.owners.GetOwnerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, estate.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(owner.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   owner.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}

	return signed, owner, nil
}

// Verify parses and validates a bearer token.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	ownerID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{OwnerID: ownerID, Role: estate.Role(c.Role)}, nil
}

type contextKey struct{}

// WithIdentity attaches the identity to the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity attached by the auth middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok
}
