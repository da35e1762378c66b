package handler

import (
	"net/http"

	"github.com/voyagecms/backend/internal/service"
)

// createDayRequest is the body of POST /api/admin/trips/{tripID}/days.
// Date, when set, places the day explicitly; otherwise Position picks an
// end of the schedule ("start" or "end", default "end").
type createDayRequest struct {
	Date           string `json:"date"`
	Position       string `json:"position"`
	DepartureTitle string `json:"departure_title"`
}

// updateDayDateRequest is the body of PUT .../days/{dayID}/date.
type updateDayDateRequest struct {
	Date string `json:"date"`
}

// reorderDaysRequest is the body of PUT .../days/{dayID}/reorder: move the
// day to the position currently held by the target day.
type reorderDaysRequest struct {
	TargetDayID int64 `json:"target_day_id"`
}

// CreateDay handles POST /api/admin/trips/{tripID}/days.
func (s *Server) CreateDay(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	var req createDayRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	days, err := s.schedule.CreateDay(r.Context(), tripID, service.CreateDayRequest{
		Date:           req.Date,
		Position:       req.Position,
		DepartureTitle: req.DepartureTitle,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, days)
}

// DeleteDay handles DELETE /api/admin/trips/{tripID}/days/{dayID}.
// With ?shift=true, every later day and its items move back one day.
func (s *Server) DeleteDay(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	shift := r.URL.Query().Get("shift") == "true"
	days, err := s.schedule.DeleteDay(r.Context(), tripID, dayID, shift)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// UpdateDayDate handles PUT /api/admin/trips/{tripID}/days/{dayID}/date.
// The day's items move with it; sibling days keep their dates.
func (s *Server) UpdateDayDate(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	var req updateDayDateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	days, err := s.schedule.UpdateDayDate(r.Context(), tripID, dayID, req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// ReorderDays handles PUT /api/admin/trips/{tripID}/days/{dayID}/reorder.
func (s *Server) ReorderDays(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	var req reorderDaysRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	days, err := s.schedule.ReorderDays(r.Context(), tripID, dayID, req.TargetDayID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// dayPath parses the tripID and dayID path parameters, writing the error
// response itself when either is malformed.
func dayPath(w http.ResponseWriter, r *http.Request) (tripID, dayID int64, ok bool) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return 0, 0, false
	}
	dayID, err = pathID(r, "dayID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return 0, 0, false
	}
	return tripID, dayID, true
}
