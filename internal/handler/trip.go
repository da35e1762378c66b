package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyagecms/backend/internal/service"
)

// createTripRequest is the body of POST /api/admin/trips.
type createTripRequest struct {
	Title          string `json:"title"`
	DepartureTitle string `json:"departure_title"`
}

// tripMetaRequest is the body of PUT /api/admin/trips/{tripID}/meta.
type tripMetaRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	IsPublic bool   `json:"is_public"`
}

// saveTripRequest is the body of PUT /api/admin/trips/{tripID}: the bulk
// editor save with every item's edited fields grouped by day.
type saveTripRequest struct {
	Title string        `json:"title"`
	Slug  string        `json:"slug"`
	Days  []saveTripDay `json:"days"`
}

type saveTripDay struct {
	ID    int64          `json:"id"`
	Items []saveTripItem `json:"items"`
}

type saveTripItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Parking   string `json:"parking"`
	Contact   string `json:"contact"`
	Memo      string `json:"memo"`
}

// ListPublicTrips handles GET /api/trips: published trips only.
func (s *Server) ListPublicTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context(), true)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// LatestTrip handles GET /api/trips/latest: the most recently created
// published trip with its full schedule.
func (s *Server) LatestTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Latest(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// GetPublicTrip handles GET /api/trips/{slug}. Unpublished trips are
// indistinguishable from missing ones.
func (s *Server) GetPublicTrip(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	trip, err := s.trips.GetBySlug(r.Context(), slug, true)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ListTrips handles GET /api/admin/trips: every trip, published or not.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context(), false)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// CreateTrip handles POST /api/admin/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), req.Title, req.DepartureTitle)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTrip handles GET /api/admin/trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	trip, err := s.trips.GetByID(r.Context(), tripID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTripMeta handles PUT /api/admin/trips/{tripID}/meta.
func (s *Server) UpdateTripMeta(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	var req tripMetaRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	updated, err := s.trips.UpdateMeta(r.Context(), tripID, service.TripMetaRequest{
		Title:    req.Title,
		Slug:     req.Slug,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SaveTrip handles PUT /api/admin/trips/{tripID}: the bulk editor save.
func (s *Server) SaveTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	var req saveTripRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	saved, err := s.trips.Save(r.Context(), tripID, toSaveRequest(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// DeleteTrip handles DELETE /api/admin/trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	if err := s.trips.Delete(r.Context(), tripID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toSaveRequest(req saveTripRequest) service.SaveTripRequest {
	out := service.SaveTripRequest{
		Title: req.Title,
		Slug:  req.Slug,
		Days:  make([]service.SaveTripDay, len(req.Days)),
	}
	for i, d := range req.Days {
		day := service.SaveTripDay{ID: d.ID, Items: make([]service.SaveTripItem, len(d.Items))}
		for j, it := range d.Items {
			day.Items[j] = service.SaveTripItem{
				ID:        it.ID,
				Title:     it.Title,
				StartTime: it.StartTime,
				EndTime:   it.EndTime,
				Location:  it.Location,
				Parking:   it.Parking,
				Contact:   it.Contact,
				Memo:      it.Memo,
			}
		}
		out.Days[i] = day
	}
	return out
}
