package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/voyagecms/backend/internal/domain"
)

// DayRepo defines the persistence operations for Days.
// All write and single-read operations are scoped by tripID to enforce ownership.
type DayRepo interface {
	// Create inserts a new day and returns the persisted record.
	// Returns domain.ErrDuplicateDate if a sibling day already has the date.
	Create(ctx context.Context, day domain.Day) (domain.Day, error)

	// GetByID retrieves a single day by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no day with that ID exists under that trip.
	// Items are not populated; use ListByTripID for the full schedule.
	GetByID(ctx context.Context, tripID, dayID int64) (domain.Day, error)

	// ListByTripID returns all days of a trip ordered by date ascending, each
	// with its items ordered by start time ascending. Returns an empty slice
	// for a trip with no days.
	ListByTripID(ctx context.Context, tripID int64) ([]domain.Day, error)

	// UpdateDate rewrites one day's date.
	// Returns domain.ErrNotFound if the day does not exist and
	// domain.ErrDuplicateDate if a sibling day already has the date.
	UpdateDate(ctx context.Context, dayID int64, date time.Time) error

	// Delete removes a day by ID, scoped to the given tripID; its items
	// cascade at the database level.
	// Returns domain.ErrNotFound if no day with that ID exists under that trip.
	Delete(ctx context.Context, tripID, dayID int64) error

	// DateExists reports whether another day of the trip already occupies the
	// given calendar date. excludeDayID is skipped so a day never collides
	// with itself; pass 0 to check all days.
	DateExists(ctx context.Context, tripID int64, date time.Time, excludeDayID int64) (bool, error)
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

func (r *pgDayRepo) Create(ctx context.Context, day domain.Day) (domain.Day, error) {
	const q = `
		INSERT INTO days (trip_id, date)
		VALUES (@trip_id, @date)
		RETURNING id, trip_id, date`

	args := pgx.NamedArgs{
		"trip_id": day.TripID,
		"date":    day.Date,
	}

	result, err := scanDay(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.Create: %w", dateErr(err))
	}
	return result, nil
}

func (r *pgDayRepo) GetByID(ctx context.Context, tripID, dayID int64) (domain.Day, error) {
	const q = `
		SELECT id, trip_id, date
		FROM days
		WHERE id = @id AND trip_id = @trip_id`

	result, err := scanDay(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID}))
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) ListByTripID(ctx context.Context, tripID int64) ([]domain.Day, error) {
	const dayQ = `
		SELECT id, trip_id, date
		FROM days
		WHERE trip_id = @trip_id
		ORDER BY date ASC`

	rows, err := r.db.Query(ctx, dayQ, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: %w", err)
	}

	days := []domain.Day{}
	index := map[int64]int{}
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("repo.DayRepo.ListByTripID: scan day: %w", err)
		}
		d.Items = []domain.Item{}
		index[d.ID] = len(days)
		days = append(days, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: day rows: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	const itemQ = `
		SELECT i.id, i.day_id, i.title, i.start_time, i.end_time,
		       i.location, i.parking, i.contact, i.memo
		FROM items i
		JOIN days d ON d.id = i.day_id
		WHERE d.trip_id = @trip_id
		ORDER BY i.start_time ASC, i.id ASC`

	itemRows, err := r.db.Query(ctx, itemQ, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		it, err := scanItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListByTripID: scan item: %w", err)
		}
		if i, ok := index[it.DayID]; ok {
			days[i].Items = append(days[i].Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: item rows: %w", err)
	}

	return days, nil
}

func (r *pgDayRepo) UpdateDate(ctx context.Context, dayID int64, date time.Time) error {
	const q = `UPDATE days SET date = @date WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": dayID, "date": date})
	if err != nil {
		return fmt.Errorf("repo.DayRepo.UpdateDate: %w", dateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayRepo.UpdateDate: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgDayRepo) Delete(ctx context.Context, tripID, dayID int64) error {
	const q = `DELETE FROM days WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgDayRepo) DateExists(ctx context.Context, tripID int64, date time.Time, excludeDayID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM days
			WHERE trip_id = @trip_id AND date = @date AND id <> @exclude_id
		)`

	args := pgx.NamedArgs{
		"trip_id":    tripID,
		"date":       date,
		"exclude_id": excludeDayID,
	}

	var exists bool
	if err := r.db.QueryRow(ctx, q, args).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.DayRepo.DateExists: %w", err)
	}
	return exists, nil
}

// dateErr converts a unique-constraint violation on (trip_id, date) into
// domain.ErrDuplicateDate so the service layer gets a sentinel it can match.
func dateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateDate
	}
	return err
}

// scanDay maps a single database row into a domain.Day.
// The DATE column comes back at midnight; normalize to UTC so date arithmetic
// in the service layer is deterministic.
func scanDay(s scanner) (domain.Day, error) {
	var (
		d    domain.Day
		date pgtype.Date
	)
	err := s.Scan(&d.ID, &d.TripID, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Day{}, domain.ErrNotFound
		}
		return domain.Day{}, err
	}
	d.Date = time.Date(date.Time.Year(), date.Time.Month(), date.Time.Day(), 0, 0, 0, 0, time.UTC)
	return d, nil
}
