package service

import (
	"context"
	"time"

	"cinetix/auth/internal/models"
	"cinetix/auth/internal/security"
)

// Ports consumed by the auth services. Adapters live in internal/repository
// and internal/security; tests substitute in-memory fakes.

type UserRepository interface {
	ByID(ctx context.Context, id string) (models.User, error)
	ByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user models.User) error
	NextIdentity(ctx context.Context) (string, error)
}

type RefreshTokenRepository interface {
	ByTokenHash(ctx context.Context, hash string) (models.RefreshToken, error)
	Create(ctx context.Context, token models.RefreshToken) error
	// SaveRotation persists the retired token and its successor in one
	// atomic step. The status flip is conditional on the old row still
	// being ACTIVE; a lost race returns repository.ErrRotationConflict.
	SaveRotation(ctx context.Context, old, next models.RefreshToken) error
	RevokeByFamily(ctx context.Context, family string) error
	NextIdentity(ctx context.Context) (string, error)
	NextFamily(ctx context.Context) (string, error)
}

type CredentialHasher interface {
	Hash(password string) ([]byte, error)
	Compare(password string, hash []byte) (bool, error)
}

type TokenHasher interface {
	Hash(raw string) string
}

type TokenCodec interface {
	Sign(subject string, role string, class security.TokenClass) (string, error)
	Verify(token string, class security.TokenClass) (*security.TokenClaims, error)
	Lifetime(class security.TokenClass) time.Duration
}

type BlacklistStore interface {
	Put(ctx context.Context, tokenHash string, userID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenHash string) (bool, error)
}
