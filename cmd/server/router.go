package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/studygen/internal/api"
	apiMiddleware "github.com/phrazzld/studygen/internal/api/middleware"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/ui"
)

// setupRouter creates the router with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(requestLogger)
	if len(app.config.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: app.config.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.passwordHasher,
		app.config.Auth,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	generateHandler := api.NewGenerateHandler(app.generationService, app.logger)
	subscriptionHandler := api.NewSubscriptionHandler(app.subscriptionService, app.logger)
	pageHandler := api.NewPageHandler(app.logger)

	r.Get("/", pageHandler.Index)
	r.Get("/health", pageHandler.Health)
	r.Handle("/static/*", ui.StaticHandler())

	// Browser account forms; a successful login sets the session cookie.
	r.Post("/register", authHandler.FormRegister)
	r.Post("/login", authHandler.FormLogin)
	r.Get("/logout", authHandler.Logout)

	// The payment provider redirects the browser here without a token.
	r.Get("/verify", subscriptionHandler.Verify)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/flashcards", generateHandler.ListFlashcards)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/generate", generateHandler.Generate)
		r.Post("/subscribe", subscriptionHandler.Subscribe)
	})

	return r
}

// requestLogger logs each completed request through the request-scoped logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.FromContextOrDefault(r.Context(), slog.Default()).Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}
