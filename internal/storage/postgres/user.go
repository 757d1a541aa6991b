package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-eng/storefront/internal/domain/auth"
)

const getUserByIDSQL = `SELECT id, email, first_name, last_name FROM users WHERE id = $1`

var _ auth.Repository = (*UserRepository)(nil)

// UserRepository provides user lookups backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns the user for a verified token subject, or
// auth.ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	var u auth.User
	err := r.pool.QueryRow(ctx, getUserByIDSQL, id).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting user %q", id)
	}
	return &u, nil
}
