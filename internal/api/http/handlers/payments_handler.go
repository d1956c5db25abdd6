package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parcel-service/internal/api/dto"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/service"
)

// PaymentsHandler serves payment intent and payment history endpoints.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// CreateIntent handles POST /create-payment-intent.
func (h *PaymentsHandler) CreateIntent(c *fiber.Ctx) error {
	var req dto.PaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	secret, err := h.payments.CreateIntent(c.UserContext(), req.Price)
	if err != nil {
		return err
	}
	return c.JSON(dto.PaymentIntentResponse{ClientSecret: secret})
}

// History handles GET /payments/:email.
func (h *PaymentsHandler) History(c *fiber.Ctx) error {
	payments, err := h.payments.History(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

// Record handles POST /payments. Callers may only record their own payments.
func (h *PaymentsHandler) Record(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		req.Email = actorEmail(c)
	}
	if err := auth.EnsureOwner(c, req.Email); err != nil {
		return err
	}

	payment, modified, err := h.payments.Record(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.PaymentResponse{InsertedID: payment.ID, ModifiedCount: modified})
}
