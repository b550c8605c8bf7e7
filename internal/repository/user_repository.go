package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinetix/auth/internal/ids"
	"cinetix/auth/internal/models"
)

type UserRepository struct {
	pool        *pgxpool.Pool
	maxAttempts int
}

func NewUserRepository(pool *pgxpool.Pool, maxAttempts int) *UserRepository {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &UserRepository{pool: pool, maxAttempts: maxAttempts}
}

func (r *UserRepository) Save(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, display_name, role, last_login_at, registered_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (id)
		DO UPDATE SET
			role = EXCLUDED.role,
			last_login_at = EXCLUDED.last_login_at
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
		user.LastLoginAt,
		user.RegisteredAt,
	)
	return err
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, display_name, role, last_login_at, registered_at
		FROM users WHERE email = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) ByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, display_name, role, last_login_at, registered_at
		FROM users WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// NextIdentity allocates a fresh user id, retrying on the operationally
// impossible collision. Repeated collisions mean the id space is broken
// and are surfaced as an infrastructure fault.
func (r *UserRepository) NextIdentity(ctx context.Context) (string, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		id := ids.NewWithPrefix("user")

		var exists bool
		if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: user id after %d attempts", ErrIDGenerationFailed, r.maxAttempts)
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.LastLoginAt,
		&user.RegisteredAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
