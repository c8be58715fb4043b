package middleware

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

const maxRequestIDLength = 128

// RequestID accepts a caller-supplied correlation id when it is short and
// printable, otherwise mints one. The id is echoed on the response before the
// handler runs so error envelopes can include it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(types.RequestIDHeader))
			if !acceptableRequestID(reqID) {
				reqID = uuid.NewString()
			}
			w.Header().Set(types.RequestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsPrint(r)
	}) < 0
}
