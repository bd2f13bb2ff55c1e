package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/dml/pkg/httputil"
	"github.com/platinummonkey/dml/pkg/observability"
)

// Rate limit response headers
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// RateLimitExceeded is the body of a 429 response
type RateLimitExceeded struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimit limits requests per client IP. Limiter errors fail open: the
// request is served without rate limit headers.
func RateLimit(limiter Limiter, metrics *observability.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "ip:" + ClientIP(r)

			allowed, err := limiter.Allow(ctx, key)
			if err != nil {
				metrics.RecordRateLimitError()
				observability.FromContext(ctx).WithError(err).WithField("client", key).Warn("Rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			limit := strconv.Itoa(limiter.Limit())
			if !allowed {
				metrics.RecordRateLimited(routeOf(r))
				reset, _ := limiter.Reset(ctx, key)
				retryAfter := int(math.Ceil(reset.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}

				w.Header().Set(HeaderRetryAfter, strconv.Itoa(retryAfter))
				w.Header().Set(HeaderLimit, limit)
				w.Header().Set(HeaderRemaining, "0")
				w.Header().Set(HeaderReset, strconv.FormatInt(time.Now().Add(reset).Unix(), 10))
				_ = httputil.WriteJSON(w, http.StatusTooManyRequests, RateLimitExceeded{
					Error:      "rate limit exceeded",
					RetryAfter: retryAfter,
				})
				return
			}

			if remaining, err := limiter.Remaining(ctx, key); err == nil {
				w.Header().Set(HeaderLimit, limit)
				w.Header().Set(HeaderRemaining, strconv.Itoa(remaining))
			}
			if reset, err := limiter.Reset(ctx, key); err == nil {
				w.Header().Set(HeaderReset, strconv.FormatInt(time.Now().Add(reset).Unix(), 10))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the originating client address, preferring the first
// X-Forwarded-For hop, then X-Real-IP, then the connection address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func routeOf(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}
