// Package service contains the business logic for the Voyage CMS backend.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on the repo.Store interface, not
// implementations.
package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/voyagecms/backend/internal/dateutil"
	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/repo"
)

// Default wall-clock times for seeded items.
const (
	departureClock = "08:00" // first item of a newly created day
	firstItemClock = "09:00" // first item appended to an empty day
)

// ScheduleService implements the day reordering and rescheduling engine.
//
// Every mutating operation runs inside a single transaction: either every
// affected row commits or none do. Operations that permute day dates use a
// two-phase reassignment so the trip-scoped unique(trip_id, date) constraint
// is never violated mid-write: phase one moves every day into a scratch date
// range strictly above all current and final dates, phase two writes the
// final dates. A direct single-pass permutation would collide as soon as two
// adjacent days swap dates.
//
// All operations re-fetch and return the finalized day list (dates ascending,
// items by start time ascending) so the caller has a consistent view.
type ScheduleService struct {
	store repo.Store
}

// NewScheduleService constructs a ScheduleService backed by the provided store.
func NewScheduleService(store repo.Store) *ScheduleService {
	return &ScheduleService{store: store}
}

// CreateDayRequest describes where a new day goes and what seeds it.
// When Date is set it wins; otherwise Position decides: "start" inserts one
// day before the current first day, anything else appends after the last.
// A trip with no days gets today regardless.
type CreateDayRequest struct {
	// Date is an optional explicit "2006-01-02" date.
	Date string
	// Position is "start" or "end". Ignored when Date is set.
	Position string
	// DepartureTitle titles the seeded first item of the new day.
	DepartureTitle string
}

// ReorderDays moves day dayID to the position currently held by targetDayID
// within the trip's date-sorted sequence. Dates are reassigned contiguously
// from the trip's first date; every item of a day whose date changed shifts
// by the same day delta, clock times untouched.
//
// Returns domain.ErrNotFound if the trip or either day does not exist.
func (s *ScheduleService) ReorderDays(ctx context.Context, tripID, dayID, targetDayID int64) ([]domain.Day, error) {
	days, err := s.tripDays(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.ReorderDays: %w", err)
	}

	from := dayIndex(days, dayID)
	to := dayIndex(days, targetDayID)
	if from < 0 || to < 0 {
		return nil, fmt.Errorf("service.ScheduleService.ReorderDays: day: %w", domain.ErrNotFound)
	}
	if from == to {
		return days, nil
	}

	// New ordering of day identities: remove the moved day, reinsert at the
	// target position.
	reordered := slices.Delete(slices.Clone(days), from, from+1)
	reordered = slices.Insert(reordered, to, days[from])

	base := days[0].Date
	scratch := scratchBase(days, dateutil.AddDays(base, len(days)-1))
	err = s.store.InTx(ctx, func(tx repo.Store) error {
		if err := stampTempDates(ctx, tx, days, scratch); err != nil {
			return err
		}
		for i, day := range reordered {
			final := dateutil.AddDays(base, i)
			if err := tx.Days().UpdateDate(ctx, day.ID, final); err != nil {
				return err
			}
			if delta := dateutil.DiffDays(final, day.Date); delta != 0 {
				if err := shiftItems(ctx, tx, day.Items, delta); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.ReorderDays: %w", err)
	}

	return s.refreshed(ctx, tripID, "ReorderDays")
}

// CreateDay adds a day to the trip and seeds it with a single departure item
// at 08:00 (no end time) titled from the request.
//
// An explicit date must parse (domain.ErrInvalidDate) and must not already be
// used within the trip (domain.ErrDuplicateDate); in either failure nothing
// is written. Before-first and after-last placements are always collision-free
// by construction.
func (s *ScheduleService) CreateDay(ctx context.Context, tripID int64, req CreateDayRequest) ([]domain.Day, error) {
	days, err := s.tripDays(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.CreateDay: %w", err)
	}

	var date time.Time
	switch {
	case req.Date != "":
		date, err = dateutil.ParseDate(req.Date)
		if err != nil {
			return nil, fmt.Errorf("service.ScheduleService.CreateDay: %w", err)
		}
		taken, err := s.store.Days().DateExists(ctx, tripID, date, 0)
		if err != nil {
			return nil, fmt.Errorf("service.ScheduleService.CreateDay: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("service.ScheduleService.CreateDay: %w", domain.ErrDuplicateDate)
		}
	case len(days) == 0:
		date = dateutil.StartOfDay(time.Now())
	case req.Position == "start":
		date = dateutil.AddDays(days[0].Date, -1)
	default:
		date = dateutil.AddDays(days[len(days)-1].Date, 1)
	}

	err = s.store.InTx(ctx, func(tx repo.Store) error {
		day, err := tx.Days().Create(ctx, domain.Day{TripID: tripID, Date: date})
		if err != nil {
			return err
		}
		start, err := dateutil.Combine(date, departureClock)
		if err != nil {
			return err
		}
		_, err = tx.Items().Create(ctx, domain.Item{
			DayID:     day.ID,
			Title:     req.DepartureTitle,
			StartTime: start,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.CreateDay: %w", err)
	}

	return s.refreshed(ctx, tripID, "CreateDay")
}

// DeleteDay removes a day and all its items. When shiftFollowing is set,
// every day after the deleted one moves back one day (items included) so the
// itinerary closes the gap; pass false when deleting the first day, where
// there is nothing before it to stay contiguous with.
//
// Returns the refreshed day list — empty when the deleted day was the only one.
func (s *ScheduleService) DeleteDay(ctx context.Context, tripID, dayID int64, shiftFollowing bool) ([]domain.Day, error) {
	days, err := s.tripDays(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.DeleteDay: %w", err)
	}

	at := dayIndex(days, dayID)
	if at < 0 {
		return nil, fmt.Errorf("service.ScheduleService.DeleteDay: day: %w", domain.ErrNotFound)
	}

	err = s.store.InTx(ctx, func(tx repo.Store) error {
		// Items first: the FK cascade would handle them, but deleting
		// explicitly keeps the transaction correct on stores without one.
		if err := tx.Items().DeleteByDayID(ctx, dayID); err != nil {
			return err
		}
		if err := tx.Days().Delete(ctx, tripID, dayID); err != nil {
			return err
		}
		if !shiftFollowing {
			return nil
		}
		// Ascending order keeps each shifted date below the next unshifted
		// one, so no transient unique-constraint collision is possible.
		for _, day := range days[at+1:] {
			if err := tx.Days().UpdateDate(ctx, day.ID, dateutil.AddDays(day.Date, -1)); err != nil {
				return err
			}
			if err := shiftItems(ctx, tx, day.Items, -1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.DeleteDay: %w", err)
	}

	return s.refreshed(ctx, tripID, "DeleteDay")
}

// UpdateDayDate moves one day to a new calendar date, shifting its items by
// the same delta. A date string that does not parse reports
// domain.ErrInvalidDate; a date already held by a sibling day reports
// domain.ErrDuplicateDate; both fail before any write. Setting a day to its
// current date is a no-op, not an error.
//
// All days go through the scratch range even though only the target day's
// date changes — the uniform two-phase pass costs a few extra writes and
// removes every transient-collision case (the straight-line target date may
// sit between two siblings mid-permutation).
func (s *ScheduleService) UpdateDayDate(ctx context.Context, tripID, dayID int64, newDate string) ([]domain.Day, error) {
	parsed, err := dateutil.ParseDate(newDate)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.UpdateDayDate: %w", err)
	}

	days, err := s.tripDays(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.UpdateDayDate: %w", err)
	}

	at := dayIndex(days, dayID)
	if at < 0 {
		return nil, fmt.Errorf("service.ScheduleService.UpdateDayDate: day: %w", domain.ErrNotFound)
	}

	delta := dateutil.DiffDays(parsed, days[at].Date)
	if delta == 0 {
		return days, nil
	}

	taken, err := s.store.Days().DateExists(ctx, tripID, parsed, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.UpdateDayDate: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("service.ScheduleService.UpdateDayDate: %w", domain.ErrDuplicateDate)
	}

	scratch := scratchBase(days, parsed)
	err = s.store.InTx(ctx, func(tx repo.Store) error {
		if err := stampTempDates(ctx, tx, days, scratch); err != nil {
			return err
		}
		for i, day := range days {
			own := 0
			if i == at {
				own = delta
			}
			if err := tx.Days().UpdateDate(ctx, day.ID, dateutil.AddDays(day.Date, own)); err != nil {
				return err
			}
			if own != 0 {
				if err := shiftItems(ctx, tx, day.Items, own); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.UpdateDayDate: %w", err)
	}

	return s.refreshed(ctx, tripID, "UpdateDayDate")
}

// tripDays verifies the trip exists and loads its full day/item schedule.
func (s *ScheduleService) tripDays(ctx context.Context, tripID int64) ([]domain.Day, error) {
	if _, err := s.store.Trips().GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.store.Days().ListByTripID(ctx, tripID)
}

// refreshed re-reads the finalized schedule after a committed mutation.
func (s *ScheduleService) refreshed(ctx context.Context, tripID int64, op string) ([]domain.Day, error) {
	days, err := s.store.Days().ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.%s: refresh: %w", op, err)
	}
	return days, nil
}

// scratchBase returns the first date of the phase-one scratch range: one day
// past every current date and every final target date. Anchoring past the
// maximum (rather than a fixed offset from the first date) keeps the range
// disjoint even when the trip's dates are non-contiguous or a final date
// lands well beyond the current span.
func scratchBase(days []domain.Day, finals ...time.Time) time.Time {
	last := days[len(days)-1].Date // days are sorted ascending
	for _, f := range finals {
		if f.After(last) {
			last = f
		}
	}
	return dateutil.AddDays(last, 1)
}

// stampTempDates is phase one of the two-phase date reassignment: day i moves
// to scratch + i days. With scratch from scratchBase, phase one can never
// collide with a day still on its current date, and phase two can never
// collide with a day still parked in the scratch range.
func stampTempDates(ctx context.Context, tx repo.Store, days []domain.Day, scratch time.Time) error {
	for i, day := range days {
		if err := tx.Days().UpdateDate(ctx, day.ID, dateutil.AddDays(scratch, i)); err != nil {
			return err
		}
	}
	return nil
}

// shiftItems moves every item's start and end timestamps by a whole number of
// days, preserving clock times.
func shiftItems(ctx context.Context, tx repo.Store, items []domain.Item, days int) error {
	for _, it := range items {
		start := dateutil.AddDays(it.StartTime, days)
		var end *time.Time
		if it.EndTime != nil {
			e := dateutil.AddDays(*it.EndTime, days)
			end = &e
		}
		if err := tx.Items().UpdateTimes(ctx, it.ID, start, end); err != nil {
			return err
		}
	}
	return nil
}

// dayIndex returns the position of dayID in the date-sorted sequence, -1 when absent.
func dayIndex(days []domain.Day, dayID int64) int {
	for i, d := range days {
		if d.ID == dayID {
			return i
		}
	}
	return -1
}
