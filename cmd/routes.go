package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"intervalTimerService/internal/auth"
)

func (app *Config) routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Use(middleware.Heartbeat("/ping"))
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)

	timerHandler := NewTimerHandler(app.Runner)
	authHandler := NewAuthHandler(app.AuthRepo)

	// Timer routes with role-based access control
	mux.Route("/timer", func(r chi.Router) {
		// Basic users (USER role) can view the timer
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAnyUserRole(app.AuthRepo))
			r.Get("/state", timerHandler.GetState)
			r.Get("/statistics", timerHandler.GetStatistics)
			r.Get("/history", timerHandler.GetHistory)
		})

		// Only admins can drive the timer
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdminRole(app.AuthRepo))
			r.Post("/start", timerHandler.Start)
			r.Post("/pause", timerHandler.Pause)
			r.Post("/reset", timerHandler.Reset)
			r.Post("/skip", timerHandler.Skip)
			r.Post("/touch", timerHandler.Touch)
			r.Post("/reset-set", timerHandler.ResetIntervalsSet)
			r.Post("/reset-total", timerHandler.ResetTotalIntervals)
			r.Post("/retime", timerHandler.Retime)
			r.Put("/auto-reset", timerHandler.SetAutoReset)
		})
	})

	// Authentication routes
	mux.Post("/auth/register", authHandler.RegisterUser)
	mux.Post("/auth/login", authHandler.LoginUser)

	// Admin registration is unauthenticated, so it only exists when explicitly allowed
	if app.allowAdminRegistration() {
		mux.Post("/auth/register-admin", authHandler.RegisterAdminUser)
	}

	// Protected routes (require JWT token)
	mux.With(auth.RequireAnyUserRole(app.AuthRepo)).Get("/auth/profile", authHandler.GetProfile)

	return mux
}

func (app *Config) allowAdminRegistration() bool {
	return app.Settings != nil && app.Settings.AllowAdminRegistration
}
