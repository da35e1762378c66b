package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// I18nBundle handles GET /api/i18n/{locale}/{namespace}: the raw JSON
// translation bundle, cacheable by the frontend for five minutes.
func (s *Server) I18nBundle(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	namespace := chi.URLParam(r, "namespace")

	bundle, err := s.bundles.Bundle(locale, namespace)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bundle)
}
