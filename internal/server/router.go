package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipebox/internal/handlers"
	applog "recipebox/internal/log"
)

func newRouter(api *handlers.RecipeAPI, cfg Config) http.Handler {
	r := chi.NewRouter()
	applog.Debug(context.Background(), "registering http routes")

	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		applog.Debug(context.Background(), "cors enabled", "origins", cfg.CORSOrigins)
	}

	r.Get("/", handlers.Home)
	r.Get("/healthz", handlers.Health)
	r.Get("/readyz", api.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", api.ListRecipes)
		r.With(writeLimiter(cfg.RateLimit)).Post("/", api.CreateRecipe)
		r.Get("/search", api.SearchRecipes)
		r.Get("/{recipeID}", api.ShowRecipe)
		r.Get("/{recipeID}/card", api.RecipeCard)
	})

	if err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		applog.Debug(context.Background(), "route registered", "method", method, "path", route)
		return nil
	}); err != nil {
		applog.Error(context.Background(), "failed to walk routes", "error", err)
	}
	return r
}

func writeLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(perMinute, time.Minute)
}
