// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/akanis/studio/internal/auth"
	"github.com/akanis/studio/internal/contact"
	"github.com/akanis/studio/internal/gallery"
	appMiddleware "github.com/akanis/studio/internal/middleware"
	"github.com/akanis/studio/internal/upload"
)

// Deps are the handlers and policies the router wires together.
type Deps struct {
	Auth           *auth.Handler
	Sessions       appMiddleware.TokenVerifier
	Gallery        *gallery.Handler
	Contact        *contact.Handler
	Upload         *upload.Handler
	AllowedOrigins []string
}

// NewRouter returns the API router. Every mutating route and every dashboard read sits behind
// the session cookie.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	requireAuth := appMiddleware.RequireAuth(d.Sessions)

	r.Route("/api", func(r chi.Router) {
		r.Use(appMiddleware.SecurityHeaders)

		r.Post("/auth", d.Auth.Login)
		r.Post("/auth/logout", d.Auth.Logout)

		r.Get("/gallery", d.Gallery.List)
		r.Post("/contact", d.Contact.Submit)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/gallery", d.Gallery.Create)
			r.Delete("/gallery", d.Gallery.Delete)
			r.Get("/contact", d.Contact.List)
			r.Post("/cloudinary-signature", d.Upload.Signature)
			r.Post("/upload/proxy", d.Upload.Proxy)
		})
	})

	return r
}
