package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parcel-service/internal/api/dto"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/service"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// ParcelsHandler serves booking, assignment and delivery endpoints.
type ParcelsHandler struct {
	parcels *service.ParcelService
}

// NewParcelsHandler constructs handler.
func NewParcelsHandler(parcels *service.ParcelService) *ParcelsHandler {
	return &ParcelsHandler{parcels: parcels}
}

// List handles GET /parcels.
func (h *ParcelsHandler) List(c *fiber.Ctx) error {
	parcels, err := h.parcels.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(parcels)
}

// Search handles GET /parcels/search?from=&to=. A date-only "to" covers that whole day.
func (h *ParcelsHandler) Search(c *fiber.Ctx) error {
	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw == "" || toRaw == "" {
		return apperrors.NewValidationError("Both from and to dates are required", nil)
	}
	from, err := dto.ParseDate(fromRaw)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"from": fromRaw})
	}
	to, err := dto.ParseDate(toRaw)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"to": toRaw})
	}
	if len(toRaw) == len(dto.DateLayout) {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	parcels, err := h.parcels.Search(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(parcels)
}

// ListByUser handles GET /parcels/user/:email.
func (h *ParcelsHandler) ListByUser(c *fiber.Ctx) error {
	parcels, err := h.parcels.ListByOwner(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(parcels)
}

// Get handles GET /parcel/:id.
func (h *ParcelsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	parcel, err := h.parcels.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(parcel)
}

// Create handles POST /parcels. Callers may only book for themselves.
func (h *ParcelsHandler) Create(c *fiber.Ctx) error {
	var req dto.ParcelRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		req.Email = actorEmail(c)
	}
	if err := auth.EnsureOwner(c, req.Email); err != nil {
		return err
	}

	parcel, err := req.ToDomain()
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	booked, err := h.parcels.Book(c.UserContext(), parcel)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.InsertResponse{InsertedID: &booked.ID})
}

// Owner resolves the email that booked the parcel named by :id, for ownership gates.
func (h *ParcelsHandler) Owner(c *fiber.Ctx) (string, error) {
	id, err := pathID(c)
	if err != nil {
		return "", err
	}
	parcel, err := h.parcels.Get(c.UserContext(), id)
	if err != nil {
		return "", err
	}
	return parcel.Email, nil
}

// Update handles PATCH /parcel/:id.
func (h *ParcelsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.ParcelPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	patch, err := req.ToDomain()
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	matched, modified, err := h.parcels.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.UpdateResponse{MatchedCount: matched, ModifiedCount: modified})
}

// Delete handles DELETE /parcels/:id.
func (h *ParcelsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	deleted, err := h.parcels.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{DeletedCount: deleted})
}

// Assign handles PATCH /parcels/:id/assign.
func (h *ParcelsHandler) Assign(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	var approx *time.Time
	if req.ApproximateDeliveryDate != "" {
		date, err := dto.ParseDate(req.ApproximateDeliveryDate)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), map[string]any{"approximateDeliveryDate": req.ApproximateDeliveryDate})
		}
		approx = &date
	}

	parcel, err := h.parcels.Assign(c.UserContext(), actorEmail(c), id, req.DeliveryPersonEmail, approx)
	if err != nil {
		return err
	}
	return c.JSON(parcel)
}

// ListDeliveries handles GET /deliveries/:email.
func (h *ParcelsHandler) ListDeliveries(c *fiber.Ctx) error {
	parcels, err := h.parcels.ListAssigned(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(parcels)
}

// CompleteDelivery handles PATCH /deliveries/:id.
func (h *ParcelsHandler) CompleteDelivery(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.DeliveryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.parcels.CompleteDelivery(c.UserContext(), actorEmail(c), id, domain.ParcelStatus(req.Status)); err != nil {
		return err
	}
	return c.JSON(dto.UpdateResponse{MatchedCount: 1, ModifiedCount: 1})
}
