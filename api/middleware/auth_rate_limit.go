package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/estilosboom/boom-backend/api/responses"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy defines the throttling parameters for one public
// surface. A zero window or all-zero limits disable the policy entirely.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// AuthRateLimit counts attempts per client IP and per (hashed) email on the
// public register and forgot-password endpoints. Counters live in redis with
// the policy window as TTL; the email is hashed before it becomes a key so
// addresses never appear in redis.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				ip := requestIP(r)
				if ip != "" {
					key := "rl:ip:" + policy.name + ":" + ip
					if ok := enforce(ctx, logg, w, store, policy, key, "ip", policy.ipLimit); !ok {
						return
					}
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeProvider, err, "read request"))
					return
				}
				// Downstream handlers decode the body again.
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := normalizeEmail(emailFromBody(body)); email != "" {
					key := "rl:email:" + policy.name + ":" + sha256Hex(email)
					if ok := enforce(ctx, logg, w, store, policy, key, "email", policy.emailLimit); !ok {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// enforce bumps the counter behind key and writes the error response when the
// limit is exceeded or the store fails. It reports whether the request may
// proceed.
func enforce(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store rateLimiterStore, policy AuthRateLimitPolicy, key, scope string, limit int) bool {
	count, err := store.IncrWithTTL(ctx, key, policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeProvider, err, "rate limiting"))
		return false
	}
	if count <= int64(limit) {
		return true
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"policy":         policy.name,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return false
}

func requestIP(r *http.Request) string {
	if r == nil {
		return ""
	}
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
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func sha256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
