package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/service"
)

func tripDetailFixture() domain.TripDetail {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return domain.TripDetail{
		Trip: domain.Trip{
			ID:       7,
			Title:    "環島之旅",
			Slug:     "round-island",
			IsPublic: true,
		},
		Days: []domain.Day{
			{ID: 1, TripID: 7, Date: date, Items: []domain.Item{
				{ID: 10, DayID: 1, Title: "出發", StartTime: date.Add(8 * time.Hour)},
			}},
		},
	}
}

func TestListPublicTrips(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trips := &mockTripServicer{
		list: func(_ context.Context, publicOnly bool) ([]domain.TripSummary, error) {
			require.True(t, publicOnly, "public listing must filter to published trips")
			return []domain.TripSummary{{ID: 7, Title: "環島之旅", Slug: "round-island", StartDate: &start}}, nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.TripSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "round-island", got[0].Slug)
}

func TestGetPublicTrip(t *testing.T) {
	trips := &mockTripServicer{
		getBySlug: func(_ context.Context, slug string, publicOnly bool) (domain.TripDetail, error) {
			require.Equal(t, "round-island", slug)
			require.True(t, publicOnly)
			return tripDetailFixture(), nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips/round-island", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.TripDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	require.Len(t, got.Days, 1)
	assert.Equal(t, "出發", got.Days[0].Items[0].Title)
}

func TestGetPublicTrip_notFound(t *testing.T) {
	trips := &mockTripServicer{
		getBySlug: func(context.Context, string, bool) (domain.TripDetail, error) {
			return domain.TripDetail{}, domain.ErrNotFound
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips/ghost", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestLatestTrip(t *testing.T) {
	trips := &mockTripServicer{
		latest: func(context.Context) (domain.TripDetail, error) {
			return tripDetailFixture(), nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips/latest", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateTrip(t *testing.T) {
	trips := &mockTripServicer{
		create: func(_ context.Context, title, departureTitle string) (domain.TripDetail, error) {
			require.Equal(t, "新旅程", title)
			require.Equal(t, "出發", departureTitle)
			return tripDetailFixture(), nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	body := jsonBody(t, map[string]string{"title": "新旅程", "departure_title": "出發"})
	rec := doAdmin(h, http.MethodPost, "/api/admin/trips", body)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateTrip_validationError(t *testing.T) {
	trips := &mockTripServicer{
		create: func(context.Context, string, string) (domain.TripDetail, error) {
			return domain.TripDetail{}, domain.ErrValidation
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doAdmin(h, http.MethodPost, "/api/admin/trips", jsonBody(t, map[string]string{"title": ""}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestUpdateTripMeta_duplicateSlug(t *testing.T) {
	trips := &mockTripServicer{
		updateMeta: func(_ context.Context, id int64, req service.TripMetaRequest) (domain.Trip, error) {
			require.Equal(t, int64(7), id)
			require.Equal(t, "taken", req.Slug)
			return domain.Trip{}, domain.ErrDuplicateSlug
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	body := jsonBody(t, map[string]any{"title": "T", "slug": "taken", "is_public": true})
	rec := doAdmin(h, http.MethodPut, "/api/admin/trips/7/meta", body)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate_slug")
}

func TestSaveTrip(t *testing.T) {
	trips := &mockTripServicer{
		save: func(_ context.Context, id int64, req service.SaveTripRequest) (domain.TripDetail, error) {
			require.Equal(t, int64(7), id)
			require.Equal(t, "環島之旅", req.Title)
			require.Len(t, req.Days, 1)
			require.Len(t, req.Days[0].Items, 1)
			assert.Equal(t, "午餐", req.Days[0].Items[0].Title)
			assert.Equal(t, "12:00", req.Days[0].Items[0].StartTime)
			return tripDetailFixture(), nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	body := jsonBody(t, map[string]any{
		"title": "環島之旅",
		"slug":  "round-island",
		"days": []map[string]any{{
			"id": 1,
			"items": []map[string]any{{
				"id": 10, "title": "午餐", "start_time": "12:00", "end_time": "13:00",
			}},
		}},
	})
	rec := doAdmin(h, http.MethodPut, "/api/admin/trips/7", body)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteTrip(t *testing.T) {
	called := false
	trips := &mockTripServicer{
		delete: func(_ context.Context, id int64) error {
			called = true
			require.Equal(t, int64(7), id)
			return nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doAdmin(h, http.MethodDelete, "/api/admin/trips/7", nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, called)
}

func TestGetTrip_badID(t *testing.T) {
	h := newHTTPHandler(deps{})

	rec := doAdmin(h, http.MethodGet, "/api/admin/trips/abc", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
