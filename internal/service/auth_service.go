package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cinetix/auth/internal/models"
	"cinetix/auth/internal/repository"
	"cinetix/auth/internal/security"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases must stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidAccessToken = errors.New("invalid access token")
)

type AuthService struct {
	users     UserRepository
	tokens    RefreshTokenRepository
	passwords CredentialHasher
	hasher    TokenHasher
	codec     TokenCodec
	blacklist BlacklistStore
	log       zerolog.Logger
}

func NewAuthService(
	users UserRepository,
	tokens RefreshTokenRepository,
	passwords CredentialHasher,
	hasher TokenHasher,
	codec TokenCodec,
	blacklist BlacklistStore,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		hasher:    hasher,
		codec:     codec,
		blacklist: blacklist,
		log:       log,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register creates a user with the default CUSTOMER role and returns the
// new id.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	email := normalizeEmail(input.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrEmailAlreadyExists
	}

	id, err := s.users.NextIdentity(ctx)
	if err != nil {
		return "", err
	}

	passwordHash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return "", err
	}

	user := models.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  input.DisplayName,
		Role:         models.UserRoleCustomer,
		RegisteredAt: time.Now(),
	}

	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	s.log.Info().Str("user_id", id).Msg("user registered")
	return id, nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

// Login verifies credentials and issues the initial token pair. The raw
// refresh token is returned to the caller; only its hash is persisted, as
// the ACTIVE head of a fresh token family.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := normalizeEmail(input.Email)

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := s.passwords.Compare(input.Password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	accessToken, err := s.codec.Sign(user.ID, string(user.Role), security.TokenClassAccess)
	if err != nil {
		return LoginResult{}, err
	}
	rawRefreshToken, err := s.codec.Sign(user.ID, "", security.TokenClassRefresh)
	if err != nil {
		return LoginResult{}, err
	}

	tokenID, err := s.tokens.NextIdentity(ctx)
	if err != nil {
		return LoginResult{}, err
	}
	family, err := s.tokens.NextFamily(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	record := models.IssueRefreshToken(
		tokenID,
		user.ID,
		s.hasher.Hash(rawRefreshToken),
		family,
		time.Now().Add(s.codec.Lifetime(security.TokenClassRefresh)),
	)
	if err := s.tokens.Create(ctx, record); err != nil {
		return LoginResult{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Save(ctx, user); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("last login stamp failed")
	}

	s.log.Info().Str("user_id", user.ID).Str("family", family).Msg("user logged in")

	return LoginResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
		User:         user,
	}, nil
}

// Logout blacklists the raw access token for exactly its remaining
// lifetime, so the entry expires when the token would have anyway.
func (s *AuthService) Logout(ctx context.Context, rawAccessToken string) error {
	claims, err := s.codec.Verify(rawAccessToken, security.TokenClassAccess)
	if err != nil {
		return ErrInvalidAccessToken
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	return s.blacklist.Put(ctx, s.hasher.Hash(rawAccessToken), claims.Subject, ttl)
}

// IsAccessTokenBlacklisted is the membership check run by the request
// authentication gate.
func (s *AuthService) IsAccessTokenBlacklisted(ctx context.Context, rawAccessToken string) (bool, error) {
	return s.blacklist.Exists(ctx, s.hasher.Hash(rawAccessToken))
}

// Authenticate is the full request gate: signature and expiry check,
// blacklist membership, then user load. Every failure collapses to
// ErrInvalidAccessToken.
func (s *AuthService) Authenticate(ctx context.Context, rawAccessToken string) (models.User, error) {
	claims, err := s.codec.Verify(rawAccessToken, security.TokenClassAccess)
	if err != nil {
		return models.User{}, ErrInvalidAccessToken
	}

	blacklisted, err := s.blacklist.Exists(ctx, s.hasher.Hash(rawAccessToken))
	if err != nil {
		return models.User{}, err
	}
	if blacklisted {
		return models.User{}, ErrInvalidAccessToken
	}

	user, err := s.users.ByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidAccessToken
		}
		return models.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
