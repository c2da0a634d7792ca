package service

import (
	"errors"
	"fmt"
	"time"

	"usersbackend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenConfig carries the externally configured signing parameters.
type TokenConfig struct {
	Key      []byte
	Issuer   string
	Audience string
	Subject  string
	Lifetime time.Duration
}

// TokenIssuer builds and signs session tokens and verifies presented
// ones. Tokens are HS256 JWTs valid for exactly the configured lifetime
// from the moment of issue; there is no refresh and no revocation.
type TokenIssuer struct {
	cfg TokenConfig
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// Issue signs a token for the given user. Every call produces a fresh
// jti; issuance time is always now.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   t.cfg.Subject,
			ID:        uuid.NewString(),
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.Lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.cfg.Key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates a presented token string, returning its
// claims. Expired, tampered, or wrongly issued tokens fail.
func (t *TokenIssuer) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return t.cfg.Key, nil
		},
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
