package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/voyagecms/backend/internal/domain"
)

// uniqueViolation is the Postgres error code raised when an INSERT or UPDATE
// trips a unique constraint (slug, or trip-scoped day date).
const uniqueViolation = "23505"

// TripRepo defines the persistence operations for Trips.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrDuplicateSlug if the slug is already taken.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// GetBySlug retrieves a single trip by its public slug.
	// Returns domain.ErrNotFound if no trip with that slug exists.
	GetBySlug(ctx context.Context, slug string) (domain.Trip, error)

	// Latest returns the most recently created trip, optionally restricted to
	// public trips. Returns domain.ErrNotFound when no trip matches.
	Latest(ctx context.Context, publicOnly bool) (domain.Trip, error)

	// List returns trip summaries ordered by creation time descending, with
	// start/end dates derived from each trip's first and last day.
	// When publicOnly is set, private trips are excluded.
	List(ctx context.Context, publicOnly bool) ([]domain.TripSummary, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if the trip does not exist,
	// domain.ErrDuplicateSlug if the new slug collides with another trip.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID; days and items cascade at the database
	// level. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (title, slug, is_public)
		VALUES (@title, @slug, @is_public)
		RETURNING id, title, slug, is_public, created_at, updated_at`

	args := pgx.NamedArgs{
		"title":     trip.Title,
		"slug":      trip.Slug,
		"is_public": trip.IsPublic,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", slugErr(err))
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	const q = `
		SELECT id, title, slug, is_public, created_at, updated_at
		FROM trips
		WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	const q = `
		SELECT id, title, slug, is_public, created_at, updated_at
		FROM trips
		WHERE slug = @slug`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetBySlug: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Latest(ctx context.Context, publicOnly bool) (domain.Trip, error) {
	const q = `
		SELECT id, title, slug, is_public, created_at, updated_at
		FROM trips
		WHERE (NOT @public_only OR is_public)
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"public_only": publicOnly}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Latest: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context, publicOnly bool) ([]domain.TripSummary, error) {
	const q = `
		SELECT t.id, t.title, t.slug, MIN(d.date), MAX(d.date)
		FROM trips t
		LEFT JOIN days d ON d.trip_id = t.id
		WHERE (NOT @public_only OR t.is_public)
		GROUP BY t.id
		ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"public_only": publicOnly})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var summaries []domain.TripSummary
	for rows.Next() {
		var (
			s          domain.TripSummary
			start, end pgtype.Date
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &start, &end); err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		if start.Valid {
			d := start.Time
			s.StartDate = &d
		}
		if end.Valid {
			d := end.Time
			s.EndDate = &d
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return summaries, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title      = @title,
		    slug       = @slug,
		    is_public  = @is_public,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, title, slug, is_public, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":        trip.ID,
		"title":     trip.Title,
		"slug":      trip.Slug,
		"is_public": trip.IsPublic,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", slugErr(err))
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var t domain.Trip
	err := s.Scan(&t.ID, &t.Title, &t.Slug, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

// slugErr converts a unique-constraint violation on the slug column into
// domain.ErrDuplicateSlug so the service layer gets a sentinel it can match.
func slugErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateSlug
	}
	return err
}
