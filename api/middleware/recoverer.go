package middleware

import (
	"fmt"
	"net/http"

	"github.com/andresreyes/spotlists-backend/api/responses"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
)

// Recoverer converts a handler panic into a logged 500 response instead of
// tearing down the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				value := recover()
				if value == nil {
					return
				}

				err := fmt.Errorf("panic: %v", value)
				ctx := r.Context()
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"panic": value,
						"path":  r.URL.Path,
					})
					logg.Error(logCtx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
