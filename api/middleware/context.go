package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgAuth "github.com/angelmondragon/sellerbazaar-backend/pkg/auth"
)

type principalKey struct{}

// WithPrincipal stores the authenticated caller on ctx.
func WithPrincipal(ctx context.Context, p pkgAuth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller set by Auth.
func PrincipalFromContext(ctx context.Context) (pkgAuth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(pkgAuth.Principal)
	return p, ok && p.ShopperID != uuid.Nil
}

// WithShopperID is shorthand for a principal carrying only the shopper id.
func WithShopperID(ctx context.Context, shopperID uuid.UUID) context.Context {
	return WithPrincipal(ctx, pkgAuth.Principal{ShopperID: shopperID})
}

func shopperScope(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.ShopperID.String()
	}
	return "anonymous"
}
