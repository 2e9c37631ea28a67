package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/viaconta/nfsync/internal/http/note"
	"github.com/viaconta/nfsync/internal/http/sync"
)

func New(
	notesV1 *note.Handler,
	syncV1 *sync.Handler,
	triggerSecret string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/notes", notesV1.Routes)

		r.Route("/sync", func(r chi.Router) {
			r.Use(RequireToken(triggerSecret))
			syncV1.Routes(r)
		})
	})

	return router
}
