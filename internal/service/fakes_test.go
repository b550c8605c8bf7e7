package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cinetix/auth/internal/models"
	"cinetix/auth/internal/repository"
	"cinetix/auth/internal/security"
)

// In-memory fakes implementing the persistence ports, mirroring the
// semantics of the pgx adapters including the conditional-rotation
// conflict.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) ByID(_ context.Context, id string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) ByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.ByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) Save(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) NextIdentity(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("user_%d", r.seq), nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	seq    int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]models.RefreshToken)}
}

func (r *fakeTokenRepo) ByTokenHash(_ context.Context, hash string) (models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.TokenHash == hash {
			return token, nil
		}
	}
	return models.RefreshToken{}, repository.ErrTokenNotFound
}

func (r *fakeTokenRepo) Create(_ context.Context, token models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepo) SaveRotation(_ context.Context, old, next models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tokens[old.ID]
	if !ok || stored.Status != models.TokenStatusActive {
		return repository.ErrRotationConflict
	}

	r.tokens[old.ID] = old
	r.tokens[next.ID] = next
	return nil
}

func (r *fakeTokenRepo) RevokeByFamily(_ context.Context, family string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.Family == family {
			token.Status = models.TokenStatusRevoked
			r.tokens[id] = token
		}
	}
	return nil
}

func (r *fakeTokenRepo) NextIdentity(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("rtk_%d", r.seq), nil
}

func (r *fakeTokenRepo) NextFamily(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("fam_%d", r.seq), nil
}

// byFamily returns all stored tokens in a family.
func (r *fakeTokenRepo) byFamily(family string) []models.RefreshToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RefreshToken
	for _, token := range r.tokens {
		if token.Family == family {
			out = append(out, token)
		}
	}
	return out
}

type blacklistEntry struct {
	userID string
	ttl    time.Duration
}

type fakeBlacklist struct {
	mu      sync.Mutex
	entries map[string]blacklistEntry
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: make(map[string]blacklistEntry)}
}

func (b *fakeBlacklist) Put(_ context.Context, tokenHash, userID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[tokenHash] = blacklistEntry{userID: userID, ttl: ttl}
	return nil
}

func (b *fakeBlacklist) Exists(_ context.Context, tokenHash string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[tokenHash]
	return ok, nil
}

type testEnv struct {
	auth      *AuthService
	tokens    *TokenService
	users     *fakeUserRepo
	tokenRepo *fakeTokenRepo
	blacklist *fakeBlacklist
	codec     *security.JWTCodec
	hasher    security.SHA256TokenHasher
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	blacklist := newFakeBlacklist()
	passwords := security.NewArgon2HasherWithParams(security.Argon2Params{
		Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16,
	})
	hasher := security.SHA256TokenHasher{}
	codec := security.NewJWTCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	logger := zerolog.Nop()

	return &testEnv{
		auth:      NewAuthService(users, tokenRepo, passwords, hasher, codec, blacklist, logger),
		tokens:    NewTokenService(users, tokenRepo, hasher, codec, logger),
		users:     users,
		tokenRepo: tokenRepo,
		blacklist: blacklist,
		codec:     codec,
		hasher:    hasher,
	}
}
