package repository

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrRotationConflict means the conditional ACTIVE→ROTATED update
	// matched no row: another request rotated or revoked the token first.
	ErrRotationConflict = errors.New("refresh token already rotated")

	ErrIDGenerationFailed = errors.New("id generation failed")
)
