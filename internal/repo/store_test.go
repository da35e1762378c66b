package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/repo"
	"github.com/voyagecms/backend/testutil"
)

// newTestStore opens a transaction against the test database and returns a
// Store backed by it. The transaction is rolled back when the test finishes,
// giving free per-test isolation. pgx transactions support nesting through
// savepoints, so Store.InTx works inside the outer test transaction too.
//
// Requires TEST_DATABASE_URL to be set and migrations applied (TestMain in
// this package applies them).
func newTestStore(t *testing.T) repo.Store {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewStore(tx)
}

// mustTrip inserts a trip and fails the test on error.
func mustTrip(t *testing.T, s repo.Store, title, slug string, public bool) domain.Trip {
	t.Helper()
	trip, err := s.Trips().Create(context.Background(), domain.Trip{
		Title:    title,
		Slug:     slug,
		IsPublic: public,
	})
	require.NoError(t, err)
	return trip
}

// mustDay inserts a day on the given "2006-01-02" date.
func mustDay(t *testing.T, s repo.Store, tripID int64, date string) domain.Day {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	day, err := s.Days().Create(context.Background(), domain.Day{TripID: tripID, Date: parsed})
	require.NoError(t, err)
	return day
}

/// mustItem inserts an item with "2006-01-02 15:04" timestamps; end may be empty.
func mustItem(t *testing.T, s repo.Store, dayID int64, title, start, end string) domain.Item {
	t.Helper()
	st, err := time.Parse("2006-01-02 15:04", start)
	require.NoError(t, err)
	item := domain.Item{DayID: dayID, Title: title, StartTime: st.UTC()}
	if end != "" {
		e, err := time.Parse("2006-01-02 15:04", end)
		require.NoError(t, err)
		e = e.UTC()
		item.EndTime = &e
	}
	created, err := s.Items().Create(context.Background(), item)
	require.NoError(t, err)
	return created
}
