package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"cinetix/auth/internal/models"
	"cinetix/auth/internal/repository"
	"cinetix/auth/internal/security"
)

// RotationOutcome classifies the result of a refresh-token rotation.
type RotationOutcome int

const (
	RotationSucceeded RotationOutcome = iota

	// RotationInvalidToken: the presented string is not a verifiable
	// refresh token (bad signature, expired JWT, garbage).
	RotationInvalidToken

	// RotationTokenNotFound: no stored record matches the token hash.
	RotationTokenNotFound

	// RotationReuseDetected: the record was already ROTATED, meaning the
	// raw token was presented twice. The whole family has been revoked by
	// the time this outcome is returned.
	RotationReuseDetected

	// RotationNotPermitted: the record exists but is expired or REVOKED.
	// Stale is not stolen; this never triggers family revocation.
	RotationNotPermitted
)

func (o RotationOutcome) String() string {
	switch o {
	case RotationSucceeded:
		return "SUCCEEDED"
	case RotationInvalidToken:
		return "INVALID_TOKEN"
	case RotationTokenNotFound:
		return "TOKEN_NOT_FOUND"
	case RotationReuseDetected:
		return "TOKEN_REUSE_DETECTED"
	case RotationNotPermitted:
		return "ROTATION_NOT_PERMITTED"
	default:
		return "UNKNOWN"
	}
}

// RotationResult is the discriminated outcome of Rotate. Expected business
// failures live here; only infrastructure failures are returned as errors.
type RotationResult struct {
	Outcome RotationOutcome

	// Family is set on reuse detection.
	Family string

	// Set on success. RefreshToken is the raw value, the only place it is
	// ever handed back to a caller.
	OldRecord    models.RefreshToken
	NewRecord    models.RefreshToken
	AccessToken  string
	RefreshToken string
}

// TokenService orchestrates refresh-token rotation: lookup by hash, reuse
// detection with family-wide revocation, and issuance of the replacement
// token pair.
type TokenService struct {
	users  UserRepository
	tokens RefreshTokenRepository
	hasher TokenHasher
	codec  TokenCodec
	log    zerolog.Logger
}

func NewTokenService(
	users UserRepository,
	tokens RefreshTokenRepository,
	hasher TokenHasher,
	codec TokenCodec,
	log zerolog.Logger,
) *TokenService {
	return &TokenService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		codec:  codec,
		log:    log,
	}
}

// Rotate exchanges a raw refresh token for a new access/refresh pair,
// retiring the presented token as ROTATED. Presenting an already-ROTATED
// token is proof of compromise and revokes every token in its family.
func (s *TokenService) Rotate(ctx context.Context, rawRefreshToken string) (RotationResult, error) {
	if _, err := s.codec.Verify(rawRefreshToken, security.TokenClassRefresh); err != nil {
		return RotationResult{Outcome: RotationInvalidToken}, nil
	}

	record, err := s.tokens.ByTokenHash(ctx, s.hasher.Hash(rawRefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return RotationResult{Outcome: RotationTokenNotFound}, nil
		}
		return RotationResult{}, err
	}

	if record.Status == models.TokenStatusRotated {
		return s.reuseDetected(ctx, record)
	}
	if record.Status != models.TokenStatusActive || record.Expired(time.Now()) {
		return RotationResult{Outcome: RotationNotPermitted}, nil
	}

	user, err := s.users.ByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return RotationResult{Outcome: RotationTokenNotFound}, nil
		}
		return RotationResult{}, err
	}

	accessToken, err := s.codec.Sign(user.ID, string(user.Role), security.TokenClassAccess)
	if err != nil {
		return RotationResult{}, err
	}
	rawNext, err := s.codec.Sign(user.ID, "", security.TokenClassRefresh)
	if err != nil {
		return RotationResult{}, err
	}

	newID, err := s.tokens.NextIdentity(ctx)
	if err != nil {
		return RotationResult{}, err
	}

	old, next, err := record.Rotate(
		newID,
		s.hasher.Hash(rawNext),
		time.Now().Add(s.codec.Lifetime(security.TokenClassRefresh)),
	)
	if err != nil {
		// Raced past the pre-checks above; same answer either way.
		return RotationResult{Outcome: RotationNotPermitted}, nil
	}

	if err := s.tokens.SaveRotation(ctx, old, next); err != nil {
		if errors.Is(err, repository.ErrRotationConflict) {
			// A concurrent request won the conditional update. The raw
			// token has now been presented twice, which is exactly the
			// reuse signal.
			return s.reuseDetected(ctx, record)
		}
		return RotationResult{}, err
	}

	return RotationResult{
		Outcome:      RotationSucceeded,
		OldRecord:    old,
		NewRecord:    next,
		AccessToken:  accessToken,
		RefreshToken: rawNext,
	}, nil
}

func (s *TokenService) reuseDetected(ctx context.Context, record models.RefreshToken) (RotationResult, error) {
	if err := s.tokens.RevokeByFamily(ctx, record.Family); err != nil {
		return RotationResult{}, err
	}

	s.log.Warn().
		Str("user_id", record.UserID).
		Str("family", record.Family).
		Msg("refresh token reuse detected, family revoked")

	return RotationResult{
		Outcome: RotationReuseDetected,
		Family:  record.Family,
	}, nil
}
