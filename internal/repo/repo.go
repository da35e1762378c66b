// Package repo contains all database access logic for the Voyage CMS backend.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/voyagecms/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Conn is db plus the ability to begin a transaction. *pgxpool.Pool satisfies
// it in production; pgx.Tx satisfies it too (Begin opens a savepoint), so a
// Store built over a test transaction still supports InTx.
type Conn interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store bundles every repository behind one handle and runs callers inside a
// single transaction on request. The service layer depends on this interface,
// not the Postgres implementation, so engine logic can be unit-tested against
// an in-memory fake.
type Store interface {
	Trips() TripRepo
	Days() DayRepo
	Items() ItemRepo
	AdminUsers() AdminUserRepo

	// InTx runs fn with a Store whose repositories all share one transaction.
	// A nil return commits; any error rolls back, leaving the stored state
	// exactly as it was. A commit failure reports domain.ErrSaveFailed.
	InTx(ctx context.Context, fn func(Store) error) error
}

// pgStore is the Postgres implementation of Store. It is an explicitly
// constructed, injected dependency — there is no package-level connection.
type pgStore struct {
	conn  Conn
	trips TripRepo
	days  DayRepo
	items ItemRepo
	users AdminUserRepo
}

// NewStore constructs a Store backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(conn Conn) Store {
	return &pgStore{
		conn:  conn,
		trips: NewTripRepo(conn),
		days:  NewDayRepo(conn),
		items: NewItemRepo(conn),
		users: NewAdminUserRepo(conn),
	}
}

func (s *pgStore) Trips() TripRepo           { return s.trips }
func (s *pgStore) Days() DayRepo             { return s.days }
func (s *pgStore) Items() ItemRepo           { return s.items }
func (s *pgStore) AdminUsers() AdminUserRepo { return s.users }

// InTx begins a transaction and hands fn a Store scoped to it.
func (s *pgStore) InTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Store.InTx: begin: %w", err)
	}

	if err := fn(NewStore(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Store.InTx: commit: %w: %v", domain.ErrSaveFailed, err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}
