package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/voyagecms/backend/internal/domain"
)

// AdminUserRepo defines the persistence operations for console accounts.
type AdminUserRepo interface {
	// GetByEmail retrieves an account by email.
	// Returns domain.ErrNotFound if no account with that email exists.
	GetByEmail(ctx context.Context, email string) (domain.AdminUser, error)

	// Upsert creates an account or replaces the password hash of an
	// existing one. Used by the create-admin CLI command.
	Upsert(ctx context.Context, email, passwordHash string) (domain.AdminUser, error)
}

type pgAdminUserRepo struct {
	db db
}

// NewAdminUserRepo constructs an AdminUserRepo backed by the provided db connection.
func NewAdminUserRepo(db db) AdminUserRepo {
	return &pgAdminUserRepo{db: db}
}

func (r *pgAdminUserRepo) GetByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	const q = `
		SELECT id, email, password_hash, created_at
		FROM admin_users
		WHERE email = @email`

	var u domain.AdminUser
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AdminUser{}, fmt.Errorf("repo.AdminUserRepo.GetByEmail: %w", domain.ErrNotFound)
		}
		return domain.AdminUser{}, fmt.Errorf("repo.AdminUserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *pgAdminUserRepo) Upsert(ctx context.Context, email, passwordHash string) (domain.AdminUser, error) {
	const q = `
		INSERT INTO admin_users (email, password_hash)
		VALUES (@email, @password_hash)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, email, password_hash, created_at`

	var u domain.AdminUser
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"email":         email,
		"password_hash": passwordHash,
	}).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("repo.AdminUserRepo.Upsert: %w", err)
	}
	return u, nil
}
