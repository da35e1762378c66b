package handler

import (
	"net/http"

	"github.com/voyagecms/backend/internal/service"
)

// updateItemRequest is the body of PUT .../items/{itemID}. Times are
// wall-clock "15:04" strings resolved against the owning day's date; an
// empty end time clears it.
type updateItemRequest struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Parking   string `json:"parking"`
	Contact   string `json:"contact"`
	Memo      string `json:"memo"`
}

// AppendItem handles POST /api/admin/trips/{tripID}/days/{dayID}/items:
// a new untitled item at the tail of the day's sequence.
func (s *Server) AppendItem(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	items, err := s.items.AppendItem(r.Context(), tripID, dayID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

// InsertItemAfter handles POST .../items/{itemID}/insert-after: a new item
// squeezed in between itemID and its follower.
func (s *Server) InsertItemAfter(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	items, err := s.items.InsertItemAfter(r.Context(), tripID, dayID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

// UpdateItem handles PUT .../items/{itemID}. Moving an item's end time
// ripples the same delta through every later item of the day.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	items, err := s.items.UpdateItem(r.Context(), tripID, dayID, itemID, service.UpdateItemRequest{
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Parking:   req.Parking,
		Contact:   req.Contact,
		Memo:      req.Memo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// DeleteItem handles DELETE .../items/{itemID}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	items, err := s.items.DeleteItem(r.Context(), tripID, dayID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func itemPath(w http.ResponseWriter, r *http.Request) (tripID, dayID, itemID int64, ok bool) {
	tripID, dayID, ok = dayPath(w, r)
	if !ok {
		return 0, 0, 0, false
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return 0, 0, 0, false
	}
	return tripID, dayID, itemID, true
}
