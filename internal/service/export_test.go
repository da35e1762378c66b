package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/service"
)

func TestExportRows(t *testing.T) {
	store := newFakeStore()
	trip := store.seedTrip("Coast Trip", "coast", true)
	d1 := store.seedDay(trip.ID, "2024-05-01")
	store.seedDay(trip.ID, "2024-05-02") // no items
	store.seedItem(d1.ID, "Lighthouse", "2024-05-01 09:00", "2024-05-01 10:30")
	store.seedItem(d1.ID, "Lunch", "2024-05-01 12:00", "")
	svc := service.NewExportService(store)

	rows, err := svc.Rows(context.Background(), trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.ExportRow{
		DayDate:   "2024-05-01",
		ItemTitle: "Lighthouse",
		StartTime: "09:00",
		EndTime:   "10:30",
	}, rows[0])
	assert.Equal(t, "Lunch", rows[1].ItemTitle)
	assert.Empty(t, rows[1].EndTime)

	// The empty day still yields one row so the export shows the full span.
	assert.Equal(t, domain.ExportRow{DayDate: "2024-05-02"}, rows[2])
}

func TestExportRows_unknownTrip(t *testing.T) {
	svc := service.NewExportService(newFakeStore())

	_, err := svc.Rows(context.Background(), 99)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestExportPDF(t *testing.T) {
	store := newFakeStore()
	trip := store.seedTrip("Coast Trip", "coast", true)
	d1 := store.seedDay(trip.ID, "2024-05-01")
	store.seedItem(d1.ID, "Lighthouse", "2024-05-01 09:00", "2024-05-01 10:30")
	svc := service.NewExportService(store)

	pdf, err := svc.PDF(context.Background(), trip.ID)

	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestExportPDF_unknownTrip(t *testing.T) {
	svc := service.NewExportService(newFakeStore())

	_, err := svc.PDF(context.Background(), 99)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
