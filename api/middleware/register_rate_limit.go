package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andresreyes/spotlists-backend/api/responses"
	"github.com/andresreyes/spotlists-backend/pkg/config"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
)

// RateLimiterStore is the counter backend for registration throttling,
// satisfied by the redis client.
type RateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RegisterRateLimit throttles account registration per client IP and per
// submitted email. Email values are hashed before being used as keys.
func RegisterRateLimit(cfg config.RateLimitConfig, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.RegisterWindow <= 0 || (cfg.RegisterIPLimit <= 0 && cfg.RegisterEmailLimit <= 0) {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cfg.RegisterIPLimit > 0 {
				ip := clientIP(r)
				if ip != "" {
					key := fmt.Sprintf("rl:register:ip:%s", ip)
					if blocked := enforce(ctx, logg, w, store, key, cfg.RegisterWindow, int64(cfg.RegisterIPLimit), "ip"); blocked {
						return
					}
				}
			}

			if cfg.RegisterEmailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := extractEmail(body); email != "" {
					key := fmt.Sprintf("rl:register:email:%s", hashValue(email))
					if blocked := enforce(ctx, logg, w, store, key, cfg.RegisterWindow, int64(cfg.RegisterEmailLimit), "email"); blocked {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// enforce bumps the counter and writes the 429 when the limit is exceeded.
// A broken limiter store fails the request rather than waving it through.
func enforce(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store RateLimiterStore, key string, window time.Duration, limit int64, scope string) bool {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= limit {
		return false
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(window.Seconds()),
		})
		logg.Warn(logCtx, "register.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "Too many registration attempts"))
	return true
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
