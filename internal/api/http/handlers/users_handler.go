package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/parcel-service/internal/api/dto"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/service"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// UsersHandler exposes token issuance and user management endpoints.
type UsersHandler struct {
	tokens *auth.TokenManager
	users  *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(tokens *auth.TokenManager, users *service.UserService) *UsersHandler {
	return &UsersHandler{tokens: tokens, users: users}
}

// IssueToken handles POST /jwt. The body object becomes the token payload as-is.
func (h *UsersHandler) IssueToken(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil || payload == nil {
		return fiber.NewError(http.StatusBadRequest, "payload must be a JSON object")
	}

	token, _, err := h.tokens.Issue(payload)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, created, err := h.users.Register(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	if !created {
		return c.JSON(dto.InsertResponse{Message: "user already exist"})
	}
	return c.JSON(dto.InsertResponse{InsertedID: &user.ID})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// ListDeliverers handles GET /users/deliverers.
func (h *UsersHandler) ListDeliverers(c *fiber.Ctx) error {
	users, err := h.users.ListDeliveryPersons(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// IsAdmin handles GET /users/admin/:email.
func (h *UsersHandler) IsAdmin(c *fiber.Ctx) error {
	ok, err := h.users.HasRole(c.UserContext(), c.Params("email"), domain.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"admin": ok})
}

// IsDeliveryPerson handles GET /users/deliverer/:email.
func (h *UsersHandler) IsDeliveryPerson(c *fiber.Ctx) error {
	ok, err := h.users.HasRole(c.UserContext(), c.Params("email"), domain.RoleDeliveryPerson)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deliveryPerson": ok})
}

// MakeAdmin handles PATCH /users/admin/:id.
func (h *UsersHandler) MakeAdmin(c *fiber.Ctx) error {
	return h.setRole(c, domain.RoleAdmin)
}

// MakeDeliverer handles PATCH /users/deliverer/:id.
func (h *UsersHandler) MakeDeliverer(c *fiber.Ctx) error {
	return h.setRole(c, domain.RoleDeliveryPerson)
}

func (h *UsersHandler) setRole(c *fiber.Ctx, role domain.Role) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	matched, modified, err := h.users.SetRole(c.UserContext(), actorEmail(c), id, role)
	if err != nil {
		return err
	}
	return c.JSON(dto.UpdateResponse{MatchedCount: matched, ModifiedCount: modified})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	deleted, err := h.users.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{DeletedCount: deleted})
}

// pathID returns the :id parameter once it parses as a UUID.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewValidationError("invalid id", map[string]any{"id": id})
	}
	return id, nil
}

func actorEmail(c *fiber.Ctx) string {
	if identity, ok := auth.IdentityFromCtx(c); ok {
		return identity.Email
	}
	return ""
}
