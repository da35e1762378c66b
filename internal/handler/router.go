package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/voyagecms/backend/internal/middleware"
)

// maxBodyBytes bounds admin request bodies; the bulk trip save is the
// largest payload and stays well under this.
const maxBodyBytes = 1 << 20

// NewRouter mounts every API route on a chi router. Routes under
// /api/admin require a valid Bearer token checked by verifier.
func NewRouter(s *Server, verifier middleware.TokenVerifier, logger *slog.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewCORSHandler(corsOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Get("/healthz", s.Healthz)
	r.Get("/openapi.yaml", s.OpenAPISpec)
	r.Get("/docs", s.Docs)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.Login)
		r.Get("/i18n/{locale}/{namespace}", s.I18nBundle)

		// Public itinerary views.
		r.Get("/trips", s.ListPublicTrips)
		r.Get("/trips/latest", s.LatestTrip)
		r.Get("/trips/{slug}", s.GetPublicTrip)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NewAuthHandler(verifier))

			r.Get("/trips", s.ListTrips)
			r.Post("/trips", s.CreateTrip)

			r.Route("/trips/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.SaveTrip)
				r.Delete("/", s.DeleteTrip)
				r.Put("/meta", s.UpdateTripMeta)
				r.Get("/export", s.ExportTrip)

				r.Post("/days", s.CreateDay)
				r.Route("/days/{dayID}", func(r chi.Router) {
					r.Delete("/", s.DeleteDay)
					r.Put("/date", s.UpdateDayDate)
					r.Put("/reorder", s.ReorderDays)

					r.Post("/items", s.AppendItem)
					r.Route("/items/{itemID}", func(r chi.Router) {
						r.Put("/", s.UpdateItem)
						r.Delete("/", s.DeleteItem)
						r.Post("/insert-after", s.InsertItemAfter)
					})
				})
			})
		})
	})

	return r
}
