package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/env"
)

// maxTrackedClients bounds the limiter table; it is reset when full.
const maxTrackedClients = 10_000

// RateLimiter hands out a token bucket per client address.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewRateLimiter allows rps requests per second per client with the given
// burst. A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *RateLimiter) limiter(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[client]; ok {
		return lim
	}
	if len(l.limiters) >= maxTrackedClients {
		clear(l.limiters)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters[client] = lim
	return lim
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !l.limiter(clientAddress(r)).Allow() {
			ctx := r.Context()
			env.EnvFromCtx(ctx).Logger.WarnContext(ctx, "too many requests")
			_ = apiError.EncodeError(w, apiError.TooManyRequests, "too many requests",
				requestid.ExtractRequestID(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
