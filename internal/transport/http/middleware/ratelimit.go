package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/ratelimit"
)

// RateLimit returns middleware enforcing the given fixed-window limiter
// keyed by client IP. Only the over-limit error reaches the client; store
// degradation inside the limiter fails open.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := limiter.Check(r.Context(), clientIP(r)); err != nil {
				var rl *domain.RateLimitedError
				if errors.As(err, &rl) {
					writeJSONError(w, http.StatusTooManyRequests,
						fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", rl.RetryAfter))
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
