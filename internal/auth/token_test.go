package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	token, expiresAt, err := tm.Issue(map[string]any{"email": "a@x.com", "name": "Ann"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(expiresAt); d <= 59*time.Minute || d > time.Hour {
		t.Fatalf("expected ~1h expiration, got %v", d)
	}

	identity, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if identity.Email != "a@x.com" {
		t.Fatalf("unexpected email %q", identity.Email)
	}
	if identity.Claims["name"] != "Ann" {
		t.Fatalf("payload claim not preserved: %v", identity.Claims)
	}
	if identity.ExpiresAt.Unix() != expiresAt.Unix() {
		t.Fatalf("exp mismatch: %v vs %v", identity.ExpiresAt, expiresAt)
	}
}

func TestIssueOverridesCallerExpiration(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	farFuture := time.Now().Add(365 * 24 * time.Hour).Unix()

	token, expiresAt, err := tm.Issue(map[string]any{"email": "a@x.com", "exp": farFuture})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	identity, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if identity.ExpiresAt.Unix() != expiresAt.Unix() {
		t.Fatalf("caller exp should be replaced, got %v", identity.ExpiresAt)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-61 * time.Minute)
	issuer := NewTokenManager("secret", time.Hour, WithClock(func() time.Time { return issuedAt }))
	token, _, err := issuer.Issue(map[string]any{"email": "a@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = NewTokenManager("secret", time.Hour).Parse(token)
	if !errors.Is(err, ErrInvalidToken) || !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestParseAcceptsTokenInsideWindow(t *testing.T) {
	issuedAt := time.Now().Add(-59 * time.Minute)
	issuer := NewTokenManager("secret", time.Hour, WithClock(func() time.Time { return issuedAt }))
	token, _, err := issuer.Issue(map[string]any{"email": "a@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenManager("secret", time.Hour).Parse(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	wrongSecret, _, err := NewTokenManager("other", time.Hour).Issue(map[string]any{"email": "a@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "a@x.com", "exp": exp}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"email": "a@x.com", "exp": exp}).
		SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@x.com"}).
		SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign no exp: %v", err)
	}

	cases := map[string]string{
		"wrong secret":    wrongSecret,
		"alg none":        none,
		"other algorithm": hs512,
		"missing exp":     noExp,
		"garbage":         "not.a.token",
		"empty":           "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Parse(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestEmptySecretRefusesToSign(t *testing.T) {
	tm := NewTokenManager("", time.Hour)
	if _, _, err := tm.Issue(map[string]any{"email": "a@x.com"}); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := tm.Parse("x"); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}

func TestIdentityOwns(t *testing.T) {
	id := &Identity{Email: "a@x.com"}
	if !id.Owns("a@x.com") {
		t.Fatalf("expected ownership")
	}
	if id.Owns("b@x.com") {
		t.Fatalf("unexpected ownership of other email")
	}
	if (&Identity{}).Owns("") {
		t.Fatalf("identity without email must own nothing")
	}
	var nilID *Identity
	if nilID.Owns("a@x.com") {
		t.Fatalf("nil identity must own nothing")
	}
}

func TestTokenLifetimeIsOneHour(t *testing.T) {
	if DefaultTokenTTL != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", DefaultTokenTTL)
	}
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", DefaultTokenTTL, WithClock(func() time.Time { return now }))
	_, exp, err := tm.Issue(map[string]any{"email": "a@test.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry one hour after issue, got %v", exp)
	}
}
