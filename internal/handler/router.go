package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/habinote/habinote-go/internal/middleware"
)

// NewRouter wires the auth endpoints under /api/auth. The profile route
// requires a bearer token checked by verifier.
func NewRouter(auth *AuthHandler, verifier middleware.TokenVerifier, corsOrigin string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(corsOrigin))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", auth.HandleRegister)
		r.Post("/login", auth.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(verifier))
			r.Get("/profile", auth.HandleProfile)
		})
	})

	return r
}
