package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/voyagecms/backend/internal/domain"
)

// ItemRepo defines the persistence operations for Items.
// All write and single-read operations are scoped by dayID to enforce ownership.
type ItemRepo interface {
	// Create inserts a new item and returns the persisted record.
	Create(ctx context.Context, item domain.Item) (domain.Item, error)

	// GetByID retrieves a single item by ID, scoped to the given dayID.
	// Returns domain.ErrNotFound if no item with that ID exists under that day.
	GetByID(ctx context.Context, dayID, itemID int64) (domain.Item, error)

	// ListByDayID returns all items of a day ordered by start time ascending.
	ListByDayID(ctx context.Context, dayID int64) ([]domain.Item, error)

	// Update overwrites the mutable fields of an item and returns the updated
	// record. Returns domain.ErrNotFound if the item does not exist.
	Update(ctx context.Context, item domain.Item) (domain.Item, error)

	// UpdateTimes rewrites only an item's start/end timestamps. Used by the
	// schedule service when cascading shifts across many items.
	// Returns domain.ErrNotFound if the item does not exist.
	UpdateTimes(ctx context.Context, itemID int64, start time.Time, end *time.Time) error

	// Delete removes an item by ID, scoped to the given dayID.
	// Returns domain.ErrNotFound if no item with that ID exists under that day.
	Delete(ctx context.Context, dayID, itemID int64) error

	// DeleteByDayID removes every item of a day. The days table cascades item
	// deletes on its own, but the schedule service also deletes items
	// explicitly inside its transaction so the behavior does not depend on
	// the cascade being present.
	DeleteByDayID(ctx context.Context, dayID int64) error
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

func (r *pgItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		INSERT INTO items (day_id, title, start_time, end_time, location, parking, contact, memo)
		VALUES (@day_id, @title, @start_time, @end_time, @location, @parking, @contact, @memo)
		RETURNING id, day_id, title, start_time, end_time, location, parking, contact, memo`

	result, err := scanItem(r.db.QueryRow(ctx, q, itemArgs(item)))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) GetByID(ctx context.Context, dayID, itemID int64) (domain.Item, error) {
	const q = `
		SELECT id, day_id, title, start_time, end_time, location, parking, contact, memo
		FROM items
		WHERE id = @id AND day_id = @day_id`

	result, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": itemID, "day_id": dayID}))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) ListByDayID(ctx context.Context, dayID int64) ([]domain.Item, error) {
	const q = `
		SELECT id, day_id, title, start_time, end_time, location, parking, contact, memo
		FROM items
		WHERE day_id = @day_id
		ORDER BY start_time ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByDayID: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListByDayID: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByDayID: rows: %w", err)
	}

	return items, nil
}

func (r *pgItemRepo) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		UPDATE items
		SET title      = @title,
		    start_time = @start_time,
		    end_time   = @end_time,
		    location   = @location,
		    parking    = @parking,
		    contact    = @contact,
		    memo       = @memo
		WHERE id = @id AND day_id = @day_id
		RETURNING id, day_id, title, start_time, end_time, location, parking, contact, memo`

	args := itemArgs(item)
	args["id"] = item.ID

	result, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) UpdateTimes(ctx context.Context, itemID int64, start time.Time, end *time.Time) error {
	const q = `UPDATE items SET start_time = @start_time, end_time = @end_time WHERE id = @id`

	args := pgx.NamedArgs{
		"id":         itemID,
		"start_time": start,
		"end_time":   end, // nil becomes NULL
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.UpdateTimes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.UpdateTimes: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgItemRepo) Delete(ctx context.Context, dayID, itemID int64) error {
	const q = `DELETE FROM items WHERE id = @id AND day_id = @day_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID, "day_id": dayID})
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgItemRepo) DeleteByDayID(ctx context.Context, dayID int64) error {
	const q = `DELETE FROM items WHERE day_id = @day_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"day_id": dayID}); err != nil {
		return fmt.Errorf("repo.ItemRepo.DeleteByDayID: %w", err)
	}
	return nil
}

func itemArgs(item domain.Item) pgx.NamedArgs {
	return pgx.NamedArgs{
		"day_id":     item.DayID,
		"title":      item.Title,
		"start_time": item.StartTime,
		"end_time":   item.EndTime, // nil becomes NULL
		"location":   item.Location,
		"parking":    item.Parking,
		"contact":    item.Contact,
		"memo":       item.Memo,
	}
}

// scanItem maps a single database row into a domain.Item.
// Timestamps are normalized to UTC so shift arithmetic and test assertions
// never depend on the server's session time zone.
func scanItem(s scanner) (domain.Item, error) {
	var (
		it  domain.Item
		end *time.Time
	)
	err := s.Scan(&it.ID, &it.DayID, &it.Title, &it.StartTime, &end,
		&it.Location, &it.Parking, &it.Contact, &it.Memo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, err
	}
	it.StartTime = it.StartTime.UTC()
	if end != nil {
		u := end.UTC()
		it.EndTime = &u
	}
	return it, nil
}
