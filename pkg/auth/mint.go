package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
)

// MintAccessToken signs a shopper token in the identity provider's shape.
// Production tokens come from the provider; this serves local tooling and tests.
func MintAccessToken(cfg config.JWTConfig, issuedAt time.Time, shopperID uuid.UUID, ttl time.Duration) (string, error) {
	switch {
	case cfg.Secret == "":
		return "", ErrMissingSecret
	case shopperID == uuid.Nil:
		return "", errors.New("shopper id is required")
	case ttl <= 0:
		return "", errors.New("ttl must be positive")
	}

	registered := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   shopperID.String(),
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		registered.Audience = jwt.ClaimStrings{aud}
	}
	token := jwt.NewWithClaims(signingMethod, AccessTokenClaims{Role: roleAuthenticated, RegisteredClaims: registered})
	return token.SignedString([]byte(cfg.Secret))
}
