package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

const identityKey = "auth_identity"

type identityContextKey struct{}

// Identity is the verified payload of a bearer token.
type Identity struct {
	Email     string
	Claims    map[string]any
	ExpiresAt time.Time
}

func newIdentity(claims jwt.MapClaims) *Identity {
	id := &Identity{Claims: map[string]any(claims)}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id
}

// Owns reports whether the identity is the owner of resources scoped to email.
// An identity without an email owns nothing.
func (i *Identity) Owns(email string) bool {
	return i != nil && i.Email != "" && i.Email == email
}

// ContextWithIdentity attaches the verified identity to ctx.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the verified identity from ctx.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok && id != nil
}

// IdentityFromCtx retrieves the identity stored by the Verifier.
func IdentityFromCtx(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityKey).(*Identity)
	return id, ok && id != nil
}

func storeIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityKey, id)
	c.SetUserContext(ContextWithIdentity(c.UserContext(), id))
}
