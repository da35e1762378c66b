package service

import (
	"context"
	"fmt"
	"time"

	"github.com/voyagecms/backend/internal/dateutil"
	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/repo"
)

// minInsertGap is the smallest gap between an anchor and its follower that
// still fits a midpoint insert. At or below it, downstream items are nudged.
const minInsertGap = time.Minute

// ItemService implements the item insertion and sequencing logic: where a new
// item's start time lands, and how edits to one item's times ripple to the
// items after it within the same day.
type ItemService struct {
	store repo.Store
}

// NewItemService constructs an ItemService backed by the provided store.
func NewItemService(store repo.Store) *ItemService {
	return &ItemService{store: store}
}

// UpdateItemRequest carries an item edit. Times are wall-clock strings
// combined with the owning day's date; an empty EndTime clears the end.
type UpdateItemRequest struct {
	Title     string
	StartTime string // "15:04"
	EndTime   string // "15:04" or "" for none
	Location  string
	Parking   string
	Contact   string
	Memo      string
}

// AppendItem adds an untitled item at the tail of a day's sequence: starting
// at the last item's end time, else the last item's start time, else 09:00
// for an empty day. The new item has no end time.
//
// Returns the day's refreshed item list in start-time order.
func (s *ItemService) AppendItem(ctx context.Context, tripID, dayID int64) ([]domain.Item, error) {
	day, items, err := s.dayItems(ctx, tripID, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.AppendItem: %w", err)
	}

	var start time.Time
	if len(items) == 0 {
		start, err = dateutil.Combine(day.Date, firstItemClock)
		if err != nil {
			return nil, fmt.Errorf("service.ItemService.AppendItem: %w", err)
		}
	} else {
		last := items[len(items)-1]
		start = last.StartTime
		if last.EndTime != nil {
			start = *last.EndTime
		}
	}

	if _, err := s.store.Items().Create(ctx, domain.Item{DayID: dayID, StartTime: start}); err != nil {
		return nil, fmt.Errorf("service.ItemService.AppendItem: %w", err)
	}

	return s.refreshedItems(ctx, dayID, "AppendItem")
}

// InsertItemAfter adds an untitled item directly after the anchor item.
//
// The new start is computed from base (anchor end, else anchor start) and the
// follower's start: no follower gives base+1m; a gap wider than one minute
// gives the floored midpoint; a gap of at most one minute first pushes the
// follower and everything after it one minute later, then places the new item
// at base + max(1s, gap/2) — strictly between its neighbors either way.
func (s *ItemService) InsertItemAfter(ctx context.Context, tripID, dayID, afterItemID int64) ([]domain.Item, error) {
	_, items, err := s.dayItems(ctx, tripID, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.InsertItemAfter: %w", err)
	}

	at := itemIndex(items, afterItemID)
	if at < 0 {
		return nil, fmt.Errorf("service.ItemService.InsertItemAfter: item: %w", domain.ErrNotFound)
	}

	anchor := items[at]
	base := anchor.StartTime
	if anchor.EndTime != nil {
		base = *anchor.EndTime
	}

	switch {
	case at == len(items)-1:
		// No follower: one minute after the anchor.
		_, err = s.store.Items().Create(ctx, domain.Item{DayID: dayID, StartTime: base.Add(time.Minute)})

	case items[at+1].StartTime.Sub(base) > minInsertGap:
		start := dateutil.Midpoint(base, items[at+1].StartTime)
		_, err = s.store.Items().Create(ctx, domain.Item{DayID: dayID, StartTime: start})

	default:
		// Not enough room: nudge the follower and everything after it one
		// minute later, then slot the new item just past the anchor. The
		// cascade and the insert must land together, so run them in one
		// transaction.
		gap := items[at+1].StartTime.Sub(base)
		offset := gap / 2
		if offset < time.Second {
			offset = time.Second
		}
		err = s.store.InTx(ctx, func(tx repo.Store) error {
			for _, it := range items[at+1:] {
				start := it.StartTime.Add(minInsertGap)
				var end *time.Time
				if it.EndTime != nil {
					e := it.EndTime.Add(minInsertGap)
					end = &e
				}
				if err := tx.Items().UpdateTimes(ctx, it.ID, start, end); err != nil {
					return err
				}
			}
			_, err := tx.Items().Create(ctx, domain.Item{
				DayID:     dayID,
				StartTime: base.Add(offset).Truncate(time.Second),
			})
			return err
		})
	}
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.InsertItemAfter: %w", err)
	}

	return s.refreshedItems(ctx, dayID, "InsertItemAfter")
}

// UpdateItem overwrites an item's fields. When the edit moves the end time of
// an item that had one, every later item in the day (by prior start order)
// rides along by the same delta, keeping the chain self-consistent.
//
// Reports domain.ErrInvalidDate for malformed clock strings and
// domain.ErrValidation when the end would precede the start — in both cases
// before anything is written.
func (s *ItemService) UpdateItem(ctx context.Context, tripID, dayID, itemID int64, req UpdateItemRequest) ([]domain.Item, error) {
	day, items, err := s.dayItems(ctx, tripID, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.UpdateItem: %w", err)
	}

	at := itemIndex(items, itemID)
	if at < 0 {
		return nil, fmt.Errorf("service.ItemService.UpdateItem: item: %w", domain.ErrNotFound)
	}
	current := items[at]

	newStart, err := dateutil.Combine(day.Date, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.UpdateItem: %w", err)
	}
	var newEnd *time.Time
	if req.EndTime != "" {
		end, err := dateutil.Combine(day.Date, req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("service.ItemService.UpdateItem: %w", err)
		}
		if end.Before(newStart) {
			return nil, fmt.Errorf("service.ItemService.UpdateItem: %w: end time before start time", domain.ErrValidation)
		}
		newEnd = &end
	}

	var delta time.Duration
	if current.EndTime != nil && newEnd != nil {
		delta = newEnd.Sub(*current.EndTime)
	}

	updated := current
	updated.Title = req.Title
	updated.StartTime = newStart
	updated.EndTime = newEnd
	updated.Location = req.Location
	updated.Parking = req.Parking
	updated.Contact = req.Contact
	updated.Memo = req.Memo

	err = s.store.InTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Items().Update(ctx, updated); err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}
		for _, it := range items[at+1:] {
			start := it.StartTime.Add(delta)
			var end *time.Time
			if it.EndTime != nil {
				e := it.EndTime.Add(delta)
				end = &e
			}
			if err := tx.Items().UpdateTimes(ctx, it.ID, start, end); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.UpdateItem: %w", err)
	}

	return s.refreshedItems(ctx, dayID, "UpdateItem")
}

// DeleteItem removes an item and returns the day's remaining items.
func (s *ItemService) DeleteItem(ctx context.Context, tripID, dayID, itemID int64) ([]domain.Item, error) {
	if _, _, err := s.dayItems(ctx, tripID, dayID); err != nil {
		return nil, fmt.Errorf("service.ItemService.DeleteItem: %w", err)
	}
	if err := s.store.Items().Delete(ctx, dayID, itemID); err != nil {
		return nil, fmt.Errorf("service.ItemService.DeleteItem: %w", err)
	}
	return s.refreshedItems(ctx, dayID, "DeleteItem")
}

// dayItems verifies day ownership and loads the day plus its ordered items.
func (s *ItemService) dayItems(ctx context.Context, tripID, dayID int64) (domain.Day, []domain.Item, error) {
	day, err := s.store.Days().GetByID(ctx, tripID, dayID)
	if err != nil {
		return domain.Day{}, nil, err
	}
	items, err := s.store.Items().ListByDayID(ctx, dayID)
	if err != nil {
		return domain.Day{}, nil, err
	}
	return day, items, nil
}

func (s *ItemService) refreshedItems(ctx context.Context, dayID int64, op string) ([]domain.Item, error) {
	items, err := s.store.Items().ListByDayID(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.%s: refresh: %w", op, err)
	}
	return items, nil
}

// itemIndex returns the position of itemID in the start-time-sorted sequence,
// -1 when absent.
func itemIndex(items []domain.Item, itemID int64) int {
	for i, it := range items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
