package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cinetix/auth/internal/ids"
)

// TokenClass selects the signing secret and lifetime for a token. Access
// and refresh tokens are never interchangeable: a refresh token presented
// where an access token is expected fails signature verification.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

var ErrUnknownTokenClass = errors.New("unknown token class")

// TokenClaims is the JWT payload for both classes. Role is set only on
// access tokens.
type TokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTCodec signs and verifies HS256 tokens with a distinct secret and
// lifetime per class.
type JWTCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTCodec {
	return &JWTCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *JWTCodec) secret(class TokenClass) ([]byte, error) {
	switch class {
	case TokenClassAccess:
		return c.accessSecret, nil
	case TokenClassRefresh:
		return c.refreshSecret, nil
	default:
		return nil, ErrUnknownTokenClass
	}
}

// Lifetime returns the configured validity window for a class. Unknown
// classes report zero.
func (c *JWTCodec) Lifetime(class TokenClass) time.Duration {
	switch class {
	case TokenClassAccess:
		return c.accessTTL
	case TokenClassRefresh:
		return c.refreshTTL
	default:
		return 0
	}
}

// Sign issues a token for subject, carrying role only on the access class.
func (c *JWTCodec) Sign(subject string, role string, class TokenClass) (string, error) {
	secret, err := c.secret(class)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.Lifetime(class))),
			// jti keeps tokens unique even when two are signed for the
			// same subject within one second; without it their hashes
			// would collide in storage.
			ID: ids.New(),
		},
	}
	if class == TokenClassAccess {
		claims.Role = role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry against the class's secret and
// returns the claims.
func (c *JWTCodec) Verify(tokenStr string, class TokenClass) (*TokenClaims, error) {
	secret, err := c.secret(class)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
