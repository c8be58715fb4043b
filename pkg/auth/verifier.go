package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
)

var (
	signingMethod = jwt.SigningMethodHS256

	ErrMissingSecret = errors.New("jwt secret is required")
)

// Verifier checks HS256 access tokens against one shared secret.
type Verifier struct {
	key    []byte
	parser *jwt.Parser
}

// NewVerifier builds a Verifier. Issuer and audience are enforced only when
// set in cfg.
func NewVerifier(cfg config.JWTConfig) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	return &Verifier{key: []byte(cfg.Secret), parser: jwt.NewParser(opts...)}, nil
}

// Verify parses raw and returns the shopper it identifies.
func (v *Verifier) Verify(raw string) (Principal, error) {
	claims := &AccessTokenClaims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, v.keyFunc); err != nil {
		return Principal{}, err
	}
	return claims.principal()
}

func (v *Verifier) keyFunc(token *jwt.Token) (any, error) {
	if token.Method != signingMethod {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return v.key, nil
}
