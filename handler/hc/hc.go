package hc

import (
	"net/http"

	"collectordao/handler/render"

	"github.com/go-chi/chi"
)

// Handle health check
func Handle(version string) http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, render.H{
			"version": version,
			"status":  "ok",
		})
	})

	return r
}
