package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// PaymentGateway creates payment intents with an external processor.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

// PaymentService handles checkout and payment history.
type PaymentService struct {
	payments   repository.PaymentRepository
	gateway    PaymentGateway
	dispatcher events.Dispatcher
}

// NewPaymentService builds the service.
func NewPaymentService(payments repository.PaymentRepository, gateway PaymentGateway, dispatcher events.Dispatcher) *PaymentService {
	return &PaymentService{payments: payments, gateway: gateway, dispatcher: dispatcher}
}

// AmountInCents converts a decimal price to the smallest currency unit.
func AmountInCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateIntent starts a card payment for price and returns the client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return "", apperrors.NewValidationError("price must be greater than zero", nil)
	}
	secret, err := s.gateway.CreateIntent(ctx, AmountInCents(price))
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return secret, nil
}

// History returns the payments made by email.
func (s *PaymentService) History(ctx context.Context, email string) ([]domain.Payment, error) {
	return s.payments.ListByEmail(ctx, email)
}

// Record stores a completed payment and marks its parcels paid. It returns how many
// parcels were marked.
func (s *PaymentService) Record(ctx context.Context, payment domain.Payment) (*domain.Payment, int64, error) {
	details := map[string]any{}
	if strings.TrimSpace(payment.Email) == "" {
		details["email"] = "required"
	}
	if strings.TrimSpace(payment.TransactionID) == "" {
		details["transactionId"] = "required"
	}
	if payment.Price <= 0 {
		details["price"] = "must be greater than zero"
	}
	if len(details) > 0 {
		return nil, 0, apperrors.NewValidationError("invalid payment", details)
	}
	if payment.ParcelIDs == nil {
		payment.ParcelIDs = []string{}
	}

	modified, err := s.payments.Record(ctx, &payment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, 0, apperrors.NewConflict("payment already recorded",
				map[string]any{"transactionId": payment.TransactionID})
		}
		return nil, 0, fmt.Errorf("record payment: %w", err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventPaymentRecorded,
		Actor: payment.Email,
		Payload: events.PaymentRecordedPayload{
			PaymentID:     payment.ID,
			Email:         payment.Email,
			Price:         payment.Price,
			TransactionID: payment.TransactionID,
			ParcelIDs:     payment.ParcelIDs,
		},
	})
	return &payment, modified, nil
}
