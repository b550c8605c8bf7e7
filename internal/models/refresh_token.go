package models

import (
	"errors"
	"time"
)

type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "ACTIVE"
	TokenStatusRotated TokenStatus = "ROTATED"
	TokenStatusRevoked TokenStatus = "REVOKED"
)

var (
	ErrRotationNotPermitted   = errors.New("rotation not permitted")
	ErrRevocationNotPermitted = errors.New("revocation not permitted")
)

// RefreshToken is one link in a token family: the chain of refresh tokens
// descended from a single login. Only the sha256 hash of the raw token is
// ever stored. Records are value types; the transition methods return new
// values and the repository performs the actual conditional write, so a
// lost race surfaces as a conflict there rather than a silent overwrite.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	Family    string
	Status    TokenStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssueRefreshToken creates the ACTIVE head of a family.
func IssueRefreshToken(id, userID, tokenHash, family string, expiresAt time.Time) RefreshToken {
	return RefreshToken{
		ID:        id,
		UserID:    userID,
		TokenHash: tokenHash,
		Family:    family,
		Status:    TokenStatusActive,
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}
}

// Expired reports whether the token is past its expiry at instant now.
func (t RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// Rotate retires the token and issues its successor in the same family.
// The first return value is the receiver marked ROTATED, the second is the
// new ACTIVE token. Fails unless the token is ACTIVE and unexpired; ROTATED
// and REVOKED are terminal states.
func (t RefreshToken) Rotate(newID, newTokenHash string, newExpiresAt time.Time) (RefreshToken, RefreshToken, error) {
	if t.Status != TokenStatusActive {
		return RefreshToken{}, RefreshToken{}, ErrRotationNotPermitted
	}
	if t.Expired(time.Now()) {
		return RefreshToken{}, RefreshToken{}, ErrRotationNotPermitted
	}

	old := t
	old.Status = TokenStatusRotated

	next := IssueRefreshToken(newID, t.UserID, newTokenHash, t.Family, newExpiresAt)
	return old, next, nil
}

// Revoke ends the token, and with it the family. Only ACTIVE tokens can be
// revoked.
func (t RefreshToken) Revoke() (RefreshToken, error) {
	if t.Status != TokenStatusActive {
		return RefreshToken{}, ErrRevocationNotPermitted
	}

	revoked := t
	revoked.Status = TokenStatusRevoked
	return revoked, nil
}
