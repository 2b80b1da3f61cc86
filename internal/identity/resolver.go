package identity

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

const bearerPrefix = "Bearer "

// TokenVerifier validates a bearer token and returns the external subject id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// UserSource loads the local user record for a verified external subject.
type UserSource interface {
	FindByUID(ctx context.Context, uid string) (*models.User, error)
}

// ResolverParams groups dependencies for the identity resolver.
type ResolverParams struct {
	Verifier TokenVerifier
	Users    UserSource
}

// Resolver turns an Authorization header into a Requestor.
type Resolver struct {
	verifier TokenVerifier
	users    UserSource
}

// NewResolver builds an identity resolver with the required collaborators.
func NewResolver(params ResolverParams) (*Resolver, error) {
	if params.Verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token verifier is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user source is required")
	}
	return &Resolver{verifier: params.Verifier, users: params.Users}, nil
}

/// Resolve performs soft resolution: absent or malformed headers yield an
// anonymous requestor, and a verified subject with no local record also
// falls back to anonymous. A token that fails verification is rejected.
func (r *Resolver) Resolve(ctx context.Context, headerValue string) (visibility.Requestor, error) {
	token, ok := extractBearer(headerValue)
	if !ok {
		return visibility.Anonymous(), nil
	}

	subject, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return visibility.Anonymous(), pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Unauthorized")
	}

	user, err := r.users.FindByUID(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return visibility.Anonymous(), nil
		}
		return visibility.Anonymous(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load requestor")
	}

	return visibility.ForUser(user), nil
}

// ResolveStrict performs hard resolution: the request must carry a valid
// token that maps to an existing, non-banned local user.
func (r *Resolver) ResolveStrict(ctx context.Context, headerValue string) (visibility.Requestor, error) {
	token, ok := extractBearer(headerValue)
	if !ok {
		return visibility.Anonymous(), pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}

	subject, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return visibility.Anonymous(), pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Unauthorized")
	}

	user, err := r.users.FindByUID(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return visibility.Anonymous(), pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
		}
		return visibility.Anonymous(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load requestor")
	}

	if user.IsBanned {
		return visibility.Anonymous(), pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}

	return visibility.ForUser(user), nil
}

func extractBearer(headerValue string) (string, bool) {
	trimmed := strings.TrimSpace(headerValue)
	if trimmed == "" || !strings.HasPrefix(trimmed, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(trimmed, bearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}
