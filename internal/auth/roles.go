package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/observability"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

const userKey = "auth_user"

var (
	ErrNoIdentity       = errors.New("auth: request has no verified identity")
	ErrRoleForbidden    = errors.New("auth: role not allowed")
	ErrNotOwner         = errors.New("auth: identity does not own resource")
	ErrUnreachableChain = errors.New("auth: gate chain admits no role")
)

// IdentityFinder resolves stored identity records. GetByEmail returns pgx.ErrNoRows
// when no record exists.
type IdentityFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OwnerSource extracts the owning email a request targets.
type OwnerSource func(c *fiber.Ctx) string

// FromParam reads the owner email from a route parameter.
func FromParam(name string) OwnerSource {
	return func(c *fiber.Ctx) string { return c.Params(name) }
}

// FromQuery reads the owner email from a query parameter.
func FromQuery(name string) OwnerSource {
	return func(c *fiber.Ctx) string { return c.Query(name) }
}

// Gate is a role check that can be composed with others on a route.
type Gate struct {
	name    string
	allowed []domain.Role
	handler fiber.Handler
}

// Name describes the gate for logs.
func (g Gate) Name() string { return g.name }

// Handler returns the fiber handler enforcing the gate.
func (g Gate) Handler() fiber.Handler { return g.handler }

// Gates builds role and ownership checks backed by the identity store.
type Gates struct {
	users   IdentityFinder
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewGates constructs the gate factory.
func NewGates(users IdentityFinder, metrics *observability.Metrics, logger *zap.Logger) *Gates {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gates{users: users, metrics: metrics, logger: logger}
}

// RequireRole admits identities whose stored role is role.
func (g *Gates) RequireRole(role domain.Role) Gate {
	gate := g.RequireAnyRole(role)
	gate.name = "require " + role.String()
	return gate
}

// RequireAnyRole admits identities whose stored role is any of roles.
func (g *Gates) RequireAnyRole(roles ...domain.Role) Gate {
	allowed := slices.Clone(roles)
	names := make([]string, len(allowed))
	for i, r := range allowed {
		names[i] = r.String()
	}

	return Gate{
		name:    "require any of " + strings.Join(names, "|"),
		allowed: allowed,
		handler: func(c *fiber.Ctx) error {
			identity, ok := IdentityFromCtx(c)
			if !ok {
				return apperrors.NewUnauthorized(ErrNoIdentity)
			}
			user, err := g.resolveUser(c, identity)
			if err != nil {
				return err
			}
			if user == nil || !slices.Contains(allowed, user.Role) || user.Role == domain.RoleNone {
				return g.forbid(c, "role", ErrRoleForbidden)
			}
			return c.Next()
		},
	}
}

// RequireOwner admits identities whose email equals the one named by source.
// Identities holding a bypass role are admitted regardless of ownership.
func (g *Gates) RequireOwner(source OwnerSource, bypass ...domain.Role) fiber.Handler {
	return g.RequireResourceOwner(func(c *fiber.Ctx) (string, error) {
		return source(c), nil
	}, bypass...)
}

// OwnerLookup resolves the owning email of a stored resource the request targets.
type OwnerLookup func(c *fiber.Ctx) (string, error)

// RequireResourceOwner applies the ownership rule to a resource addressed by id. Lookup
// errors are returned unchanged.
func (g *Gates) RequireResourceOwner(lookup OwnerLookup, bypass ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return apperrors.NewUnauthorized(ErrNoIdentity)
		}
		owner, err := lookup(c)
		if err != nil {
			return err
		}
		if identity.Owns(owner) {
			return c.Next()
		}
		if len(bypass) > 0 {
			user, err := g.resolveUser(c, identity)
			if err != nil {
				return err
			}
			if user != nil && user.Role != domain.RoleNone && slices.Contains(bypass, user.Role) {
				return c.Next()
			}
		}
		return g.forbid(c, "ownership", ErrNotOwner)
	}
}

// EnsureOwner applies the ownership rule to an email taken from a request body.
func EnsureOwner(c *fiber.Ctx, email string) error {
	identity, ok := IdentityFromCtx(c)
	if !ok {
		return apperrors.NewUnauthorized(ErrNoIdentity)
	}
	if !identity.Owns(email) {
		return apperrors.NewForbidden(ErrNotOwner)
	}
	return nil
}

// UserFromCtx returns the record resolved by an earlier gate on this request, if any.
func UserFromCtx(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok && user != nil
}

// resolveUser loads the identity's stored record once per request. A nil user means the
// store has no record for the identity.
func (g *Gates) resolveUser(c *fiber.Ctx, identity *Identity) (*domain.User, error) {
	if user, ok := UserFromCtx(c); ok {
		return user, nil
	}
	if identity.Email == "" {
		return nil, nil
	}
	user, err := g.users.GetByEmail(c.UserContext(), identity.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("lookup identity: %w", err))
	}
	c.Locals(userKey, user)
	return user, nil
}

func (g *Gates) forbid(c *fiber.Ctx, reason string, err error) error {
	g.metrics.RecordAuthRejection(reason)
	g.logger.Debug("gate rejected request",
		zap.String("path", c.Path()),
		zap.String("reason", reason))
	return apperrors.NewForbidden(err)
}

// CheckChain reports ErrUnreachableChain when AND-composed gates leave no role that could
// pass all of them.
func CheckChain(gates ...Gate) error {
	if len(gates) < 2 {
		return nil
	}
	admitted := slices.Clone(gates[0].allowed)
	for _, gate := range gates[1:] {
		admitted = slices.DeleteFunc(admitted, func(r domain.Role) bool {
			return !slices.Contains(gate.allowed, r)
		})
	}
	if len(admitted) > 0 {
		return nil
	}
	names := make([]string, len(gates))
	for i, gate := range gates {
		names[i] = gate.name
	}
	return fmt.Errorf("%w: %s", ErrUnreachableChain, strings.Join(names, " AND "))
}

// Chain returns the handlers of gates in order, logging a warning when the chain is
// unreachable by any identity.
func Chain(logger *zap.Logger, route string, gates ...Gate) []fiber.Handler {
	if err := CheckChain(gates...); err != nil && logger != nil {
		logger.Warn("route gate chain rejects every identity", zap.String("route", route), zap.Error(err))
	}
	handlers := make([]fiber.Handler, len(gates))
	for i, gate := range gates {
		handlers[i] = gate.handler
	}
	return handlers
}
