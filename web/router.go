// Package web serves the search page and its JSON API.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pg-recommender/geo"
	"pg-recommender/models"
	"pg-recommender/services"
	"pg-recommender/utils"
)

// Deps are the collaborators of the HTTP layer. Geocoder may be nil, which
// hides the auto-detect control.
type Deps struct {
	Dataset   *models.Dataset
	Engine    *services.Engine
	Annotator *services.Annotator
	Geocoder  geo.Geocoder
	Logger    *utils.Logger
}

// NewRouter wires every route.
func NewRouter(deps Deps) http.Handler {
	h := newHandler(deps)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog(deps.Logger))

	r.Get("/", h.page)
	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", h.options)
		r.Get("/listings", h.listings)
		r.Get("/locate", h.locate)
	})

	return r
}
