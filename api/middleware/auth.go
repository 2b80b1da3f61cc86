package middleware

import (
	"context"
	"net/http"

	"github.com/andresreyes/spotlists-backend/api/responses"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

// IdentityResolver turns an Authorization header into a requestor. Both
// variants are implemented by the identity package's resolver.
type IdentityResolver interface {
	Resolve(ctx context.Context, headerValue string) (visibility.Requestor, error)
	ResolveStrict(ctx context.Context, headerValue string) (visibility.Requestor, error)
}

// ResolveRequestor performs soft authentication: missing credentials fall
// back to anonymous, but a token that fails verification is rejected.
func ResolveRequestor(resolver IdentityResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return resolveWith(resolver, logg, func(resolver IdentityResolver, ctx context.Context, header string) (visibility.Requestor, error) {
		return resolver.Resolve(ctx, header)
	})
}

// RequireUser performs hard authentication: the request must resolve to an
// existing, non-banned local user.
func RequireUser(resolver IdentityResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return resolveWith(resolver, logg, func(resolver IdentityResolver, ctx context.Context, header string) (visibility.Requestor, error) {
		return resolver.ResolveStrict(ctx, header)
	})
}

func resolveWith(
	resolver IdentityResolver,
	logg *logger.Logger,
	resolve func(IdentityResolver, context.Context, string) (visibility.Requestor, error),
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			requestor, err := resolve(resolver, ctx, r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithRequestor(ctx, requestor)
			if logg != nil && !requestor.IsAnonymous() {
				ctx = logg.WithUserID(ctx, requestor.ID())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
