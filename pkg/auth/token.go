// Package auth verifies the ID tokens minted by the external identity
// provider. The backend never issues tokens itself; it only checks the
// provider's signature and extracts the stable subject id that local user
// records are keyed on.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresreyes/spotlists-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// IDTokenClaims represents the provider-issued ID token payload.
type IDTokenClaims struct {
	jwt.RegisteredClaims
}

// Verifier validates provider ID tokens against the shared secret and
// issuer from configuration.
type Verifier struct {
	cfg config.IDTokenConfig
}

// NewVerifier builds a verifier from the ID token configuration.
func NewVerifier(cfg config.IDTokenConfig) (*Verifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("id token secret is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("id token issuer is required")
	}
	return &Verifier{cfg: cfg}, nil
}

// Verify checks the token signature, issuer and expiry, returning the
// external subject id. The context is accepted for interface symmetry with
// remote verifiers; validation itself is local.
func (v *Verifier) Verify(_ context.Context, tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(v.cfg.Leeway))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := &IDTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(v.cfg.Secret), nil
		},
		opts...,
	)
	if err != nil {
		return "", err
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("id token missing subject")
	}
	return subject, nil
}

// MintIDToken issues a provider-shaped token. Used by tests and local
// tooling; production tokens come from the identity provider.
func MintIDToken(cfg config.IDTokenConfig, subject string, now time.Time, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("id token secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("id token issuer is required")
	}
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("subject is required")
	}

	claims := IDTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing id token: %w", err)
	}
	return signed, nil
}
