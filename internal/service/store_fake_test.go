package service_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/repo"
)

// fakeStore is an in-memory repo.Store. It enforces the same uniqueness
// rules as the Postgres schema (trip slug, day date per trip), so a service
// that would trip the unique(trip_id, date) constraint mid-permutation fails
// here exactly as it would against the real database. InTx snapshots the
// state and restores it on error, mirroring transaction rollback.
type fakeStore struct {
	trips map[int64]domain.Trip
	days  map[int64]domain.Day
	items map[int64]domain.Item
	users map[int64]domain.AdminUser

	nextID int64

	// dayDateWrites counts Days().UpdateDate calls so tests can assert that
	// a no-op issued no writes.
	dayDateWrites int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trips: map[int64]domain.Trip{},
		days:  map[int64]domain.Day{},
		items: map[int64]domain.Item{},
		users: map[int64]domain.AdminUser{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) Trips() repo.TripRepo           { return fakeTripRepo{s} }
func (s *fakeStore) Days() repo.DayRepo             { return fakeDayRepo{s} }
func (s *fakeStore) Items() repo.ItemRepo           { return fakeItemRepo{s} }
func (s *fakeStore) AdminUsers() repo.AdminUserRepo { return fakeAdminUserRepo{s} }

func (s *fakeStore) InTx(_ context.Context, fn func(repo.Store) error) error {
	trips := maps.Clone(s.trips)
	days := maps.Clone(s.days)
	items := maps.Clone(s.items)
	users := maps.Clone(s.users)
	nextID := s.nextID

	if err := fn(s); err != nil {
		s.trips, s.days, s.items, s.users, s.nextID = trips, days, items, users, nextID
		return err
	}
	return nil
}

var _ repo.Store = (*fakeStore)(nil)

// seedTrip inserts a trip directly, bypassing the service layer.
func (s *fakeStore) seedTrip(title, slug string, public bool) domain.Trip {
	t := domain.Trip{
		ID:        s.id(),
		Title:     title,
		Slug:      slug,
		IsPublic:  public,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.trips[t.ID] = t
	return t
}

// seedDay inserts a day directly. date is "2006-01-02".
func (s *fakeStore) seedDay(tripID int64, date string) domain.Day {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	d := domain.Day{ID: s.id(), TripID: tripID, Date: t}
	s.days[d.ID] = d
	return d
}

// seedItem inserts an item directly. start/end are "2006-01-02 15:04"
// timestamps; end may be empty.
func (s *fakeStore) seedItem(dayID int64, title, start, end string) domain.Item {
	st, err := time.Parse("2006-01-02 15:04", start)
	if err != nil {
		panic(err)
	}
	it := domain.Item{ID: s.id(), DayID: dayID, Title: title, StartTime: st.UTC()}
	if end != "" {
		e, err := time.Parse("2006-01-02 15:04", end)
		if err != nil {
			panic(err)
		}
		e = e.UTC()
		it.EndTime = &e
	}
	s.items[it.ID] = it
	return it
}

// ---- trips -----------------------------------------------------------------

type fakeTripRepo struct{ s *fakeStore }

func (r fakeTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	for _, t := range r.s.trips {
		if t.Slug == trip.Slug {
			return domain.Trip{}, domain.ErrDuplicateSlug
		}
	}
	trip.ID = r.s.id()
	trip.CreatedAt = time.Now().UTC()
	trip.UpdatedAt = trip.CreatedAt
	r.s.trips[trip.ID] = trip
	return trip, nil
}

func (r fakeTripRepo) GetByID(_ context.Context, id int64) (domain.Trip, error) {
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (r fakeTripRepo) GetBySlug(_ context.Context, slug string) (domain.Trip, error) {
	for _, t := range r.s.trips {
		if t.Slug == slug {
			return t, nil
		}
	}
	return domain.Trip{}, domain.ErrNotFound
}

func (r fakeTripRepo) Latest(_ context.Context, publicOnly bool) (domain.Trip, error) {
	var latest domain.Trip
	found := false
	for _, t := range r.s.trips {
		if publicOnly && !t.IsPublic {
			continue
		}
		if !found || t.ID > latest.ID {
			latest = t
			found = true
		}
	}
	if !found {
		return domain.Trip{}, domain.ErrNotFound
	}
	return latest, nil
}

func (r fakeTripRepo) List(_ context.Context, publicOnly bool) ([]domain.TripSummary, error) {
	var out []domain.TripSummary
	for _, t := range r.s.trips {
		if publicOnly && !t.IsPublic {
			continue
		}
		sum := domain.TripSummary{ID: t.ID, Title: t.Title, Slug: t.Slug}
		for _, d := range r.s.days {
			if d.TripID != t.ID {
				continue
			}
			date := d.Date
			if sum.StartDate == nil || date.Before(*sum.StartDate) {
				sum.StartDate = &date
			}
			if sum.EndDate == nil || date.After(*sum.EndDate) {
				sum.EndDate = &date
			}
		}
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b domain.TripSummary) int {
		return int(b.ID - a.ID) // creation order descending
	})
	return out, nil
}

func (r fakeTripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	current, ok := r.s.trips[trip.ID]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	for _, t := range r.s.trips {
		if t.ID != trip.ID && t.Slug == trip.Slug {
			return domain.Trip{}, domain.ErrDuplicateSlug
		}
	}
	current.Title = trip.Title
	current.Slug = trip.Slug
	current.IsPublic = trip.IsPublic
	current.UpdatedAt = time.Now().UTC()
	r.s.trips[trip.ID] = current
	return current, nil
}

func (r fakeTripRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.trips, id)
	for dayID, d := range r.s.days {
		if d.TripID != id {
			continue
		}
		delete(r.s.days, dayID)
		for itemID, it := range r.s.items {
			if it.DayID == dayID {
				delete(r.s.items, itemID)
			}
		}
	}
	return nil
}

// ---- days ------------------------------------------------------------------

type fakeDayRepo struct{ s *fakeStore }

// checkDateFree mimics the unique(trip_id, date) constraint.
func (r fakeDayRepo) checkDateFree(tripID int64, date time.Time, excludeDayID int64) error {
	for _, d := range r.s.days {
		if d.TripID == tripID && d.ID != excludeDayID && d.Date.Equal(date) {
			return fmt.Errorf("unique constraint violated: trip %d already has %s",
				tripID, date.Format("2006-01-02"))
		}
	}
	return nil
}

func (r fakeDayRepo) Create(_ context.Context, day domain.Day) (domain.Day, error) {
	if err := r.checkDateFree(day.TripID, day.Date, 0); err != nil {
		return domain.Day{}, err
	}
	day.ID = r.s.id()
	day.Items = nil
	r.s.days[day.ID] = day
	return day, nil
}

func (r fakeDayRepo) GetByID(_ context.Context, tripID, dayID int64) (domain.Day, error) {
	d, ok := r.s.days[dayID]
	if !ok || d.TripID != tripID {
		return domain.Day{}, domain.ErrNotFound
	}
	return d, nil
}

func (r fakeDayRepo) ListByTripID(_ context.Context, tripID int64) ([]domain.Day, error) {
	days := []domain.Day{}
	for _, d := range r.s.days {
		if d.TripID != tripID {
			continue
		}
		d.Items = r.itemsOf(d.ID)
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b domain.Day) int {
		return a.Date.Compare(b.Date)
	})
	return days, nil
}

func (r fakeDayRepo) itemsOf(dayID int64) []domain.Item {
	items := []domain.Item{}
	for _, it := range r.s.items {
		if it.DayID == dayID {
			items = append(items, it)
		}
	}
	sortItems(items)
	return items
}

func (r fakeDayRepo) UpdateDate(_ context.Context, dayID int64, date time.Time) error {
	d, ok := r.s.days[dayID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.checkDateFree(d.TripID, date, dayID); err != nil {
		return err
	}
	d.Date = date
	r.s.days[dayID] = d
	r.s.dayDateWrites++
	return nil
}

func (r fakeDayRepo) Delete(_ context.Context, tripID, dayID int64) error {
	d, ok := r.s.days[dayID]
	if !ok || d.TripID != tripID {
		return domain.ErrNotFound
	}
	delete(r.s.days, dayID)
	for itemID, it := range r.s.items {
		if it.DayID == dayID {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

func (r fakeDayRepo) DateExists(_ context.Context, tripID int64, date time.Time, excludeDayID int64) (bool, error) {
	return r.checkDateFree(tripID, date, excludeDayID) != nil, nil
}

// ---- items -----------------------------------------------------------------

type fakeItemRepo struct{ s *fakeStore }

func (r fakeItemRepo) Create(_ context.Context, item domain.Item) (domain.Item, error) {
	item.ID = r.s.id()
	r.s.items[item.ID] = item
	return item, nil
}

func (r fakeItemRepo) GetByID(_ context.Context, dayID, itemID int64) (domain.Item, error) {
	it, ok := r.s.items[itemID]
	if !ok || it.DayID != dayID {
		return domain.Item{}, domain.ErrNotFound
	}
	return it, nil
}

func (r fakeItemRepo) ListByDayID(_ context.Context, dayID int64) ([]domain.Item, error) {
	return fakeDayRepo{r.s}.itemsOf(dayID), nil
}

func (r fakeItemRepo) Update(_ context.Context, item domain.Item) (domain.Item, error) {
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	r.s.items[item.ID] = item
	return item, nil
}

func (r fakeItemRepo) UpdateTimes(_ context.Context, itemID int64, start time.Time, end *time.Time) error {
	it, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.StartTime = start
	it.EndTime = end
	r.s.items[itemID] = it
	return nil
}

func (r fakeItemRepo) Delete(_ context.Context, dayID, itemID int64) error {
	it, ok := r.s.items[itemID]
	if !ok || it.DayID != dayID {
		return domain.ErrNotFound
	}
	delete(r.s.items, itemID)
	return nil
}

func (r fakeItemRepo) DeleteByDayID(_ context.Context, dayID int64) error {
	for itemID, it := range r.s.items {
		if it.DayID == dayID {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

// ---- admin users -----------------------------------------------------------

type fakeAdminUserRepo struct{ s *fakeStore }

func (r fakeAdminUserRepo) GetByEmail(_ context.Context, email string) (domain.AdminUser, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.AdminUser{}, domain.ErrNotFound
}

func (r fakeAdminUserRepo) Upsert(_ context.Context, email, passwordHash string) (domain.AdminUser, error) {
	for id, u := range r.s.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			r.s.users[id] = u
			return u, nil
		}
	}
	u := domain.AdminUser{ID: r.s.id(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	r.s.users[u.ID] = u
	return u, nil
}

// ---- helpers ---------------------------------------------------------------

func sortItems(items []domain.Item) {
	slices.SortFunc(items, func(a, b domain.Item) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
}

// dates formats a day list as "2006-01-02" strings for compact assertions.
func dates(days []domain.Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Date.Format("2006-01-02")
	}
	return out
}

// dayIDs lists day identities in sequence order.
func dayIDs(days []domain.Day) []int64 {
	out := make([]int64, len(days))
	for i, d := range days {
		out[i] = d.ID
	}
	return out
}

// clocks formats a day's items as "title@15:04" (or "title@15:04-15:04" with
// an end time) for compact assertions. Seconds appear only when non-zero.
func clocks(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		s := it.Title + "@" + clock(it.StartTime)
		if it.EndTime != nil {
			s += "-" + clock(*it.EndTime)
		}
		out[i] = s
	}
	return out
}

func clock(t time.Time) string {
	if t.Second() == 0 {
		return t.Format("15:04")
	}
	return t.Format("15:04:05")
}
