package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinetix/auth/internal/ids"
	"cinetix/auth/internal/models"
)

type RefreshTokenRepository struct {
	pool        *pgxpool.Pool
	maxAttempts int
}

func NewRefreshTokenRepository(pool *pgxpool.Pool, maxAttempts int) *RefreshTokenRepository {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &RefreshTokenRepository{pool: pool, maxAttempts: maxAttempts}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token models.RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, token_family, status, issued_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.pool.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.Family,
		token.Status,
		token.IssuedAt,
		token.ExpiresAt,
	)
	return err
}

func (r *RefreshTokenRepository) ByTokenHash(ctx context.Context, hash string) (models.RefreshToken, error) {
	const query = `
		SELECT id, user_id, token_hash, token_family, status, issued_at, expires_at
		FROM refresh_tokens WHERE token_hash = $1
	`

	row := r.pool.QueryRow(ctx, query, hash)
	var token models.RefreshToken
	if err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.Family,
		&token.Status,
		&token.IssuedAt,
		&token.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RefreshToken{}, ErrTokenNotFound
		}
		return models.RefreshToken{}, err
	}
	return token, nil
}

// SaveRotation flips the old row ACTIVE→ROTATED and inserts the successor
// in one transaction. The update is conditional on the row still being
// ACTIVE; when another request got there first, no row matches and the
// whole transaction fails with ErrRotationConflict.
func (r *RefreshTokenRepository) SaveRotation(ctx context.Context, old, next models.RefreshToken) error {
	const rotate = `
		UPDATE refresh_tokens SET status = $3
		WHERE id = $1 AND status = $2
	`
	const insert = `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, token_family, status, issued_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, rotate, old.ID, models.TokenStatusActive, models.TokenStatusRotated)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRotationConflict
	}

	if _, err := tx.Exec(ctx, insert,
		next.ID,
		next.UserID,
		next.TokenHash,
		next.Family,
		next.Status,
		next.IssuedAt,
		next.ExpiresAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RevokeByFamily marks every token descended from one login as REVOKED,
// whatever state each link is in.
func (r *RefreshTokenRepository) RevokeByFamily(ctx context.Context, family string) error {
	const query = `UPDATE refresh_tokens SET status = $2 WHERE token_family = $1`

	_, err := r.pool.Exec(ctx, query, family, models.TokenStatusRevoked)
	return err
}

// DeleteExpired removes rows whose expiry is in the past. Rotated and
// revoked rows are kept until then so reuse detection keeps working for
// the full refresh lifetime.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at < $1`

	cmd, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *RefreshTokenRepository) NextIdentity(ctx context.Context) (string, error) {
	return r.nextUnique(ctx, "rtk", "id")
}

// NextFamily allocates a family id. Families have no table of their own;
// the id is a random grouping key in the same space as token ids.
func (r *RefreshTokenRepository) NextFamily(ctx context.Context) (string, error) {
	return r.nextUnique(ctx, "fam", "token_family")
}

func (r *RefreshTokenRepository) nextUnique(ctx context.Context, prefix, column string) (string, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE %s = $1)`, column)

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		id := ids.NewWithPrefix(prefix)

		var exists bool
		if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %s after %d attempts", ErrIDGenerationFailed, prefix, r.maxAttempts)
}
