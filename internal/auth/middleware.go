package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/observability"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// Verifier rejects requests without a valid bearer token before any gate or handler runs.
type Verifier struct {
	tokens  *TokenManager
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewVerifier constructs the token verification middleware.
func NewVerifier(tokens *TokenManager, metrics *observability.Metrics, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{tokens: tokens, metrics: metrics, logger: logger}
}

// Handle enforces authentication for protected routes.
func (v *Verifier) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return v.reject(c, "missing_token", ErrMissingToken)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return v.reject(c, "malformed_header", ErrBadAuthScheme)
	}

	identity, err := v.tokens.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired_token"
		}
		return v.reject(c, reason, err)
	}

	storeIdentity(c, identity)
	return c.Next()
}

func (v *Verifier) reject(c *fiber.Ctx, reason string, err error) error {
	v.metrics.RecordAuthRejection(reason)
	v.logger.Debug("token rejected",
		zap.String("path", c.Path()),
		zap.String("reason", reason),
		zap.Error(err))
	return apperrors.NewUnauthorized(err)
}
