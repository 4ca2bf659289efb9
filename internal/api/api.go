// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/matt-dz/foodgram/docs"
	"github.com/matt-dz/foodgram/internal/api/middleware"
	"github.com/matt-dz/foodgram/internal/api/routes/auth"
	"github.com/matt-dz/foodgram/internal/api/routes/ingredients"
	"github.com/matt-dz/foodgram/internal/api/routes/ping"
	"github.com/matt-dz/foodgram/internal/api/routes/recipes"
	"github.com/matt-dz/foodgram/internal/api/routes/shortlink"
	"github.com/matt-dz/foodgram/internal/api/routes/tags"
	"github.com/matt-dz/foodgram/internal/api/routes/users"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/role"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func addDocs(r chi.Router, hostOrigin string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(hostOrigin+"/api/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		middleware.MethodNotAllowed(w, req)
	}))
}

func addMedia(r chi.Router, env *env.Env) {
	local, ok := env.FileStore.(*filestore.LocalStore)
	if !ok {
		return
	}
	prefix := local.URLPrefix()
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(local.BaseDirectory())))
	r.Handle(prefix+"/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Uploaded files never run script on the API origin.
		w.Header().Set("Content-Security-Policy", "sandbox")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, req)
	}))
}

func addRoutes(router chi.Router, conf config.Config) {
	loginLimiter := middleware.NewRateLimiter(conf.RateLimit.LoginRPS, conf.RateLimit.LoginBurst)

	router.Get("/s/{code}", shortlink.HandleRedirect)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/auth/token", func(r chi.Router) {
			r.With(loginLimiter.Handler).Post("/login", auth.HandleLogin)
			r.With(middleware.RequireUser).Post("/logout", auth.HandleLogout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.HandleListUsers)
			r.Post("/", users.HandleRegister)
			r.Get("/{id}", users.HandleGetUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)

				r.Get("/me", users.HandleMe)
				r.Put("/me/avatar", users.HandleSetAvatar)
				r.Delete("/me/avatar", users.HandleDeleteAvatar)
				r.Post("/set_password", users.HandleSetPassword)
				r.Get("/subscriptions", users.HandleListSubscriptions)
				r.Post("/{id}/subscribe", users.HandleSubscribe)
				r.Delete("/{id}/subscribe", users.HandleUnsubscribe)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.HandleListTags)
			r.Get("/{id}", tags.HandleGetTag)
			r.With(middleware.RequireRole(role.RoleAdmin)).Post("/", tags.HandleCreateTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.HandleListIngredients)
			r.Get("/{id}", ingredients.HandleGetIngredient)
			r.With(middleware.RequireRole(role.RoleAdmin)).Post("/", ingredients.HandleCreateIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.HandleListRecipes)
			r.Get("/{id}", recipes.HandleGetRecipe)
			r.Get("/{id}/get-link", recipes.HandleGetLink)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)

				r.Post("/", recipes.HandleCreateRecipe)
				r.Put("/{id}", recipes.HandleUpdateRecipe)
				r.Patch("/{id}", recipes.HandleUpdateRecipe)
				r.Delete("/{id}", recipes.HandleDeleteRecipe)
				r.Post("/{id}/favorite", recipes.HandleAddFavorite)
				r.Delete("/{id}/favorite", recipes.HandleRemoveFavorite)
				r.Post("/{id}/shopping_cart", recipes.HandleAddToShoppingCart)
				r.Delete("/{id}/shopping_cart", recipes.HandleRemoveFromShoppingCart)
				r.Get("/download_shopping_cart", recipes.HandleDownloadShoppingCart)
			})
		})
	})
}

// NewRouter builds the HTTP handler for env. Metrics are registered with
// reg and served from /metrics when gatherer is not nil.
func NewRouter(env *env.Env, reg prometheus.Registerer, gatherer prometheus.Gatherer) http.Handler {
	router := chi.NewRouter()
	router.NotFound(middleware.NotFound)
	router.MethodNotAllowed(middleware.MethodNotAllowed)

	router.Use(chimw.StripSlashes)
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(chimw.Recoverer)
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.Cors(env.Config.HostOrigin, env.Config.Env == config.EnvProd))
	router.Use(middleware.NewMetrics(reg).Handler)
	router.Use(middleware.Authenticate)

	addRoutes(router, env.Config)
	addDocs(router, env.Config.HostOrigin)
	addMedia(router, env)
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return router
}

// Start godoc
//
//	@title						Foodgram API
//	@version					1.0
//	@description				API Server for the Foodgram recipe sharing application.
//
//	@securityDefinitions.apikey	TokenAuth
//	@in							header
//	@name						Authorization
//	@description				"Token <access token>"
//
//	@host						localhost:8080
//	@BasePath					/
func Start(ctx context.Context, env *env.Env) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	addr := fmt.Sprintf(":%d", env.Config.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(env, reg, reg),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0%s", addr))
		env.Logger.Info(fmt.Sprintf("Swagger UI available at %s/api/swagger/index.html", env.Config.HostOrigin))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	env.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
