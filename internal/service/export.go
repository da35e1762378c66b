package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/voyagecms/backend/internal/dateutil"
	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/repo"
)

const clockLayout = "15:04"

// ExportService renders a trip's full itinerary for download, either as flat
// rows (JSON) or as a printable PDF.
type ExportService struct {
	store repo.Store
}

// NewExportService constructs an ExportService backed by the provided store.
func NewExportService(store repo.Store) *ExportService {
	return &ExportService{store: store}
}

// Rows returns one ExportRow per item across the trip's days, in schedule
// order. Days with no items contribute one row with empty item fields.
func (s *ExportService) Rows(ctx context.Context, tripID int64) ([]domain.ExportRow, error) {
	_, days, err := s.load(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, day := range days {
		date := day.Date.Format(dateutil.DateLayout)
		if len(day.Items) == 0 {
			rows = append(rows, domain.ExportRow{DayDate: date})
			continue
		}
		for _, it := range day.Items {
			row := domain.ExportRow{
				DayDate:   date,
				ItemTitle: it.Title,
				StartTime: it.StartTime.Format(clockLayout),
				Location:  it.Location,
				Parking:   it.Parking,
				Contact:   it.Contact,
				Memo:      it.Memo,
			}
			if it.EndTime != nil {
				row.EndTime = it.EndTime.Format(clockLayout)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// PDF renders the trip as a printable A4 document: a title page header, one
// section per day, one line per item.
func (s *ExportService) PDF(ctx context.Context, tripID int64) ([]byte, error) {
	trip, days, err := s.load(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.PDF: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(trip.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, trip.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, trip.Slug, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, day := range days {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, day.Date.Format("Mon 2006-01-02"), "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 10)
		for _, it := range day.Items {
			window := it.StartTime.Format(clockLayout)
			if it.EndTime != nil {
				window += " - " + it.EndTime.Format(clockLayout)
			}
			pdf.CellFormat(30, 6, window, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, it.Title, "", 1, "L", false, 0, "")
			if it.Location != "" {
				pdf.SetTextColor(110, 110, 110)
				pdf.CellFormat(30, 5, "", "", 0, "L", false, 0, "")
				pdf.CellFormat(0, 5, it.Location, "", 1, "L", false, 0, "")
				pdf.SetTextColor(0, 0, 0)
			}
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("service.ExportService.PDF: render: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) load(ctx context.Context, tripID int64) (domain.Trip, []domain.Day, error) {
	trip, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	days, err := s.store.Days().ListByTripID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	return trip, days, nil
}
