package handler

import (
	"fmt"
	"net/http"
)

// ExportTrip handles GET /api/admin/trips/{tripID}/export.
// ?format=json returns the flat row view; anything else (the default)
// streams a PDF download.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	if r.URL.Query().Get("format") == "json" {
		rows, err := s.export.Rows(r.Context(), tripID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	pdf, err := s.export.PDF(r.Context(), tripID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="itinerary-%d.pdf"`, tripID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
