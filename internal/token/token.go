// Package token issues and validates the JWT bearer tokens used for
// API authentication.
package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campfire/internal/models"
	"campfire/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer is the "iss" claim stamped on every issued token.
	Issuer = "campfire-api"
	// Audience is the "aud" claim stamped on every issued token.
	Audience = "campfire-client"

	// DefaultTTL is the token lifetime used when no TTL is configured.
	DefaultTTL = 14 * 24 * time.Hour
)

// Service issues signed tokens and resolves them back to users.
type Service struct {
	secret []byte
	ttl    time.Duration
	users  repository.UserRepository
}

// NewService creates a token service. A non-positive ttl falls back to
// DefaultTTL.
func NewService(secret string, ttl time.Duration, users repository.UserRepository) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
	}
}

// Issue creates a signed JWT for the given user.
func (s *Service) Issue(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10), // Subject (user ID as string)
		"username": user.Username,                           // Username (cached in token)
		"iss":      Issuer,                                  // Issuer
		"aud":      Audience,                                // Audience
		"exp":      now.Add(s.ttl).Unix(),                   // Expiration
		"iat":      now.Unix(),                              // Issued at
		"nbf":      now.Unix(),                              // Not before
		"jti":      generateJTI(),                           // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// Validate parses and verifies a token string and resolves the subject to a
// live user record. Tokens whose subject no longer exists are rejected even
// when the signature and expiry are still valid.
func (s *Service) Validate(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.NewTokenExpiredError()
		}
		return nil, models.NewTokenMalformedError()
	}
	if !token.Valid {
		return nil, models.NewTokenMalformedError()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewTokenMalformedError()
	}

	// Validate issuer and audience
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != Issuer {
		return nil, models.NewTokenMalformedError()
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != Audience {
		return nil, models.NewTokenMalformedError()
	}

	// Extract user ID from subject claim
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, models.NewTokenMalformedError()
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, models.NewTokenMalformedError()
	}

	// The subject must still exist. A deleted account invalidates every
	// token it ever issued.
	user, err := s.users.GetByID(ctx, uint(userID))
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewTokenUnknownSubjectError()
		}
		return nil, err
	}

	return user, nil
}
