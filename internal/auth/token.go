package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of every issued token.
const DefaultTokenTTL = time.Hour

var (
	ErrMissingToken  = errors.New("auth: authorization header missing")
	ErrBadAuthScheme = errors.New("auth: authorization must be Bearer <token>")
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrEmptySecret   = errors.New("auth: empty signing secret")
)

// TokenManager issues and verifies HS256 tokens with a process-wide secret.
// It keeps no state about issued tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the validity window of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs payload as-is, adding iat and exp. Caller-supplied iat/exp are overwritten.
// No authentication happens here; callers must have proven the identity beforehand.
func (tm *TokenManager) Issue(payload map[string]any) (string, time.Time, error) {
	if len(tm.secret) == 0 {
		return "", time.Time{}, ErrEmptySecret
	}

	now := tm.now()
	expiresAt := now.Add(tm.ttl)

	claims := make(jwt.MapClaims, len(payload)+2)
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates signature, algorithm and expiration and returns the decoded identity.
func (tm *TokenManager) Parse(tokenStr string) (*Identity, error) {
	if len(tm.secret) == 0 {
		return nil, ErrEmptySecret
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return newIdentity(claims), nil
}
