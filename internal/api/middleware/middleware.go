// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/env"
	fgJwt "github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/role"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level: slog.LevelInfo,
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			return []slog.Attr{slog.String("log_id", requestid.ExtractRequestID(r.Context()))}
		},
	})
}

// AddRequestID adds a request ID to the request context and response headers.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := requestid.New()
		w.Header().Set(requestid.Header, requestID)
		r = r.WithContext(log.AppendCtx(r.Context(), slog.String("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// Cors allows the configured host origin. Outside of production any origin
// is allowed so local frontends can reach the API.
func Cors(hostOrigin string, production bool) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", requestid.Header},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	if production {
		opts.AllowedOrigins = []string{hostOrigin}
	} else {
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	}
	return cors.Handler(opts)
}

// Authenticate validates the access token when one is presented and stores
// the caller in the request context. Tokens revoked by logout are refused.
// Requests without a token pass through anonymously.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		env := env.EnvFromCtx(ctx)
		requestID := requestid.ExtractRequestID(ctx)

		raw, err := token.ParseAuthorizationHeader(r)
		if errors.Is(err, token.ErrMissingToken) {
			next.ServeHTTP(w, r)
			return
		} else if err != nil {
			env.Logger.DebugContext(ctx, "invalid authorization header", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		secret, version := env.AppSecret()
		if len(secret) == 0 {
			env.Logger.ErrorContext(ctx, "app secret not set")
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		if version == "" {
			version = fgJwt.DefaultKID
		}

		claims, err := fgJwt.ValidateJWT(raw, version, secret)
		if errors.Is(err, jwt.ErrTokenExpired) {
			env.Logger.DebugContext(ctx, "access token expired", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
			return
		} else if err != nil {
			env.Logger.DebugContext(ctx, "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		revoked, err := env.Database.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to check token revocation", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		if revoked {
			env.Logger.DebugContext(ctx, "access token was revoked", slog.String("jti", claims.ID))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "access token has been revoked", requestID)
			return
		}

		ctx = log.AppendCtx(ctx, slog.Int64("user-id", userID))
		ctx = token.UserIDWithCtx(ctx, userID)
		ctx = token.ClaimsWithCtx(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose authenticated caller does not hold
// requiredRole. It expects Authenticate to have run.
func RequireRole(requiredRole role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			env := env.EnvFromCtx(ctx)
			requestID := requestid.ExtractRequestID(ctx)

			claims, ok := token.ClaimsFromCtx(ctx)
			if !ok {
				_ = apiError.EncodeError(w, apiError.NotAuthenticated,
					"authentication credentials were not provided", requestID)
				return
			}

			userRole := role.Parse(claims.Role)
			if !userRole.Satisfies(requiredRole) {
				env.Logger.DebugContext(ctx, "user does not have required role",
					slog.String("user-role", userRole.String()),
					slog.String("required-role", requiredRole.String()))
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return RequireRole(role.RoleUser)(next)
}

// Metrics records request counts and latencies per route pattern.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodgram",
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "foodgram",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// NotFound and MethodNotAllowed render router misses in the API error shape.
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = apiError.EncodeError(w, apiError.NotFound, "not found", requestid.ExtractRequestID(r.Context()))
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = apiError.EncodeError(w, apiError.MethodNotAllowed, "method not allowed",
		requestid.ExtractRequestID(r.Context()))
}
