package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope. The panic value is
// logged but never echoed to the client. When the handler had already begun
// its response, only the log line is written.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				handlePanic(rec, r, logg, v)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

func handlePanic(rec *statusRecorder, r *http.Request, logg *logger.Logger, v any) {
	cause, ok := v.(error)
	if !ok {
		cause = fmt.Errorf("%v", v)
	}
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "handler panicked")

	ctx := r.Context()
	if rec.status != 0 {
		if logg != nil {
			ctx = logg.WithField(ctx, "status_sent", rec.status)
			logg.Error(ctx, "panic after response started", err)
		}
		return
	}
	responses.WriteError(ctx, logg, rec.ResponseWriter, err)
}
