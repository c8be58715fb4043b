package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	pkgAuth "github.com/angelmondragon/sellerbazaar-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

const bearerScheme = "bearer"

// Auth requires a valid shopper access token on every request and attaches
// the resulting principal to the context and the request logger.
func Auth(verifier *pkgAuth.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token required"))
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "access token rejected"))
				return
			}

			ctx = WithPrincipal(ctx, principal)
			if logg != nil {
				ctx = logg.WithShopperID(ctx, principal.ShopperID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken accepts "Bearer <token>" with any scheme casing.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
