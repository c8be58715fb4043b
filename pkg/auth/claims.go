package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	roleAuthenticated = "authenticated"
	roleAnonymous     = "anon"
)

// AccessTokenClaims mirrors the identity provider's access token. The
// subject is the shopper id.
type AccessTokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the caller identity placed on the request context.
type Principal struct {
	ShopperID uuid.UUID
	Email     string
	TokenID   string
}

func (c *AccessTokenClaims) principal() (Principal, error) {
	if c.Role == roleAnonymous {
		return Principal{}, fmt.Errorf("anonymous sessions cannot shop")
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil || id == uuid.Nil {
		return Principal{}, fmt.Errorf("subject %q is not a shopper id", c.Subject)
	}
	return Principal{ShopperID: id, Email: c.Email, TokenID: c.ID}, nil
}
