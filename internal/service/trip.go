package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/voyagecms/backend/internal/dateutil"
	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/repo"
)

// slugPattern is the accepted shape for public trip slugs.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// TripService implements business logic for Trip operations.
type TripService struct {
	store repo.Store
}

// NewTripService constructs a TripService backed by the provided store.
func NewTripService(store repo.Store) *TripService {
	return &TripService{store: store}
}

// TripMetaRequest carries an edit to a trip's title, slug, and visibility.
type TripMetaRequest struct {
	Title    string
	Slug     string
	IsPublic bool
}

// SaveTripRequest is the bulk save issued by the console editor: trip meta
// plus the edited fields of every item, grouped by day. Days and items are
// addressed by ID; days absent from the request are left alone.
type SaveTripRequest struct {
	Title string
	Slug  string
	Days  []SaveTripDay
}

// SaveTripDay is one day's worth of item edits in a bulk save.
type SaveTripDay struct {
	ID    int64
	Items []SaveTripItem
}

// SaveTripItem is a single item's edited fields in a bulk save.
// Times are wall-clock strings resolved against the owning day's date.
type SaveTripItem struct {
	ID        int64
	Title     string
	StartTime string
	EndTime   string
	Location  string
	Parking   string
	Contact   string
	Memo      string
}

// Create persists a new trip seeded with today's day and one departure item
// at 08:00, all in one transaction. The slug is generated from the creation
// timestamp; edit it afterwards via UpdateMeta.
func (s *TripService) Create(ctx context.Context, title, departureTitle string) (domain.TripDetail, error) {
	if err := validation.Validate(title, validation.Required, validation.Length(1, 200)); err != nil {
		return domain.TripDetail{}, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
	}

	today := dateutil.StartOfDay(time.Now())
	slug := fmt.Sprintf("trip-%d", time.Now().UnixMilli())

	var created domain.Trip
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		var err error
		created, err = tx.Trips().Create(ctx, domain.Trip{Title: title, Slug: slug})
		if err != nil {
			return err
		}
		day, err := tx.Days().Create(ctx, domain.Day{TripID: created.ID, Date: today})
		if err != nil {
			return err
		}
		start, err := dateutil.Combine(today, departureClock)
		if err != nil {
			return err
		}
		_, err = tx.Items().Create(ctx, domain.Item{
			DayID:     day.ID,
			Title:     departureTitle,
			StartTime: start,
		})
		return err
	})
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	return s.detail(ctx, created)
}

// List returns all trips as summaries, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, publicOnly bool) ([]domain.TripSummary, error) {
	summaries, err := s.store.Trips().List(ctx, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if summaries == nil {
		return []domain.TripSummary{}, nil
	}
	return summaries, nil
}

// GetByID returns a trip with its full schedule.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.TripDetail, error) {
	trip, err := s.store.Trips().GetByID(ctx, id)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return s.detail(ctx, trip)
}

// GetBySlug returns a trip with its full schedule, looked up by public slug.
// With publicOnly set, a private trip reports domain.ErrNotFound rather than
// revealing its existence.
func (s *TripService) GetBySlug(ctx context.Context, slug string, publicOnly bool) (domain.TripDetail, error) {
	trip, err := s.store.Trips().GetBySlug(ctx, slug)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.GetBySlug: %w", err)
	}
	if publicOnly && !trip.IsPublic {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.GetBySlug: %w", domain.ErrNotFound)
	}
	return s.detail(ctx, trip)
}

// Latest returns the most recently created public trip with its schedule.
func (s *TripService) Latest(ctx context.Context) (domain.TripDetail, error) {
	trip, err := s.store.Trips().Latest(ctx, true)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Latest: %w", err)
	}
	return s.detail(ctx, trip)
}

// UpdateMeta rewrites a trip's title, slug, and visibility.
// Returns domain.ErrDuplicateSlug when the slug is taken by another trip.
func (s *TripService) UpdateMeta(ctx context.Context, id int64, req TripMetaRequest) (domain.Trip, error) {
	if err := validateTripMeta(req.Title, req.Slug); err != nil {
		return domain.Trip{}, err
	}

	updated, err := s.store.Trips().Update(ctx, domain.Trip{
		ID:       id,
		Title:    req.Title,
		Slug:     req.Slug,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateMeta: %w", err)
	}
	return updated, nil
}

// Save applies the console editor's bulk save: trip meta plus every edited
// item's fields, in one transaction. All time strings are validated against
// their owning day's date before anything is written.
func (s *TripService) Save(ctx context.Context, id int64, req SaveTripRequest) (domain.TripDetail, error) {
	if err := validateTripMeta(req.Title, req.Slug); err != nil {
		return domain.TripDetail{}, err
	}

	trip, err := s.store.Trips().GetByID(ctx, id)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: %w", err)
	}
	days, err := s.store.Days().ListByTripID(ctx, id)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: %w", err)
	}
	byID := make(map[int64]domain.Day, len(days))
	for _, d := range days {
		byID[d.ID] = d
	}

	// Resolve and validate every item update up front; the transaction only
	// runs once the whole payload is known good.
	updates := make([]domain.Item, 0)
	for _, sd := range req.Days {
		day, ok := byID[sd.ID]
		if !ok {
			return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: day %d: %w", sd.ID, domain.ErrNotFound)
		}
		for _, si := range sd.Items {
			at := itemIndex(day.Items, si.ID)
			if at < 0 {
				return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: item %d: %w", si.ID, domain.ErrNotFound)
			}
			start, err := dateutil.Combine(day.Date, si.StartTime)
			if err != nil {
				return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: %w", err)
			}
			var end *time.Time
			if si.EndTime != "" {
				e, err := dateutil.Combine(day.Date, si.EndTime)
				if err != nil {
					return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: %w", err)
				}
				if e.Before(start) {
					return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: %w: end time before start time", domain.ErrValidation)
				}
				end = &e
			}
			item := day.Items[at]
			item.Title = si.Title
			item.StartTime = start
			item.EndTime = end
			item.Location = si.Location
			item.Parking = si.Parking
			item.Contact = si.Contact
			item.Memo = si.Memo
			updates = append(updates, item)
		}
	}

	err = s.store.InTx(ctx, func(tx repo.Store) error {
		trip.Title = req.Title
		trip.Slug = req.Slug
		if _, err := tx.Trips().Update(ctx, trip); err != nil {
			return err
		}
		for _, item := range updates {
			if _, err := tx.Items().Update(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Save: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a trip; its days and items go with it.
func (s *TripService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Trips().Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

func (s *TripService) detail(ctx context.Context, trip domain.Trip) (domain.TripDetail, error) {
	days, err := s.store.Days().ListByTripID(ctx, trip.ID)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService: load days: %w", err)
	}
	return domain.TripDetail{Trip: trip, Days: days}, nil
}

// validateTripMeta enforces the rules shared by UpdateMeta and Save:
// a non-empty bounded title and a URL-safe slug.
func validateTripMeta(title, slug string) error {
	err := validation.Errors{
		"title": validation.Validate(title, validation.Required, validation.Length(1, 200)),
		"slug": validation.Validate(slug, validation.Required, validation.Length(1, 100),
			validation.Match(slugPattern)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
