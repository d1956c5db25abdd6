package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// ParcelService coordinates booking, assignment and delivery of parcels.
type ParcelService struct {
	parcels    repository.ParcelRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewParcelService builds the service.
func NewParcelService(parcels repository.ParcelRepository, users repository.UserRepository, dispatcher events.Dispatcher) *ParcelService {
	return &ParcelService{parcels: parcels, users: users, dispatcher: dispatcher}
}

// Book stores a new parcel as pending and unpaid.
func (s *ParcelService) Book(ctx context.Context, parcel domain.Parcel) (*domain.Parcel, error) {
	details := map[string]any{}
	if strings.TrimSpace(parcel.Email) == "" {
		details["email"] = "required"
	}
	if parcel.RequestedDeliveryDate.IsZero() {
		details["requestedDeliveryDate"] = "required"
	}
	if parcel.Price < 0 {
		details["price"] = "must not be negative"
	}
	if parcel.Weight < 0 {
		details["weight"] = "must not be negative"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid parcel", details)
	}

	parcel.Status = domain.ParcelStatusPending
	parcel.PaymentStatus = domain.PaymentStatusUnpaid
	parcel.DeliveryPersonEmail = nil
	parcel.ApproximateDeliveryDate = nil
	if err := s.parcels.Create(ctx, &parcel); err != nil {
		return nil, err
	}

	s.publishParcel(ctx, events.EventParcelBooked, parcel.Email, &parcel)
	return &parcel, nil
}

// Get returns one parcel.
func (s *ParcelService) Get(ctx context.Context, id string) (*domain.Parcel, error) {
	parcel, err := s.parcels.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("parcel", map[string]any{"id": id})
	}
	return parcel, err
}

// List returns every parcel.
func (s *ParcelService) List(ctx context.Context) ([]domain.Parcel, error) {
	return s.parcels.List(ctx)
}

// ListByOwner returns the parcels booked by email.
func (s *ParcelService) ListByOwner(ctx context.Context, email string) ([]domain.Parcel, error) {
	return s.parcels.ListByEmail(ctx, email)
}

// Search returns parcels whose requested delivery date falls within [from, to].
func (s *ParcelService) Search(ctx context.Context, from, to time.Time) ([]domain.Parcel, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("from must not be after to", nil)
	}
	return s.parcels.SearchByRequestedDate(ctx, from, to)
}

// Update applies patch and reports matched and modified counts. Through a patch the status
// can only move to cancelled; delivery progress goes through Assign and CompleteDelivery.
func (s *ParcelService) Update(ctx context.Context, id string, patch domain.ParcelPatch) (int64, int64, error) {
	if patch.Empty() {
		return 0, 0, apperrors.NewValidationError("nothing to update", nil)
	}
	if patch.Status != nil && *patch.Status != domain.ParcelStatusCancelled {
		return 0, 0, apperrors.NewValidationError("status can only be set to cancelled",
			map[string]any{"status": string(*patch.Status)})
	}
	matched, modified, err := s.parcels.Update(ctx, id, patch)
	if err != nil {
		return 0, 0, err
	}
	if matched == 0 {
		return 0, 0, apperrors.NewNotFound("parcel", map[string]any{"id": id})
	}
	return matched, modified, nil
}

// Delete removes a parcel and reports how many were deleted.
func (s *ParcelService) Delete(ctx context.Context, id string) (int64, error) {
	return s.parcels.Delete(ctx, id)
}

// Assign hands a parcel to a delivery person and marks it on the way.
func (s *ParcelService) Assign(ctx context.Context, actor, id, deliveryPersonEmail string, approximateDate *time.Time) (*domain.Parcel, error) {
	if strings.TrimSpace(deliveryPersonEmail) == "" {
		return nil, apperrors.NewValidationError("deliveryPersonEmail is required", nil)
	}

	rider, err := s.users.GetByEmail(ctx, deliveryPersonEmail)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if !rider.HasRole(domain.RoleDeliveryPerson) {
		return nil, apperrors.NewValidationError("assignee is not a delivery person",
			map[string]any{"deliveryPersonEmail": deliveryPersonEmail})
	}

	matched, err := s.parcels.Assign(ctx, id, deliveryPersonEmail, approximateDate)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, apperrors.NewNotFound("parcel", map[string]any{"id": id})
	}

	parcel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishParcel(ctx, events.EventParcelAssigned, actor, parcel)
	return parcel, nil
}

// ListAssigned returns parcels assigned to a delivery person.
func (s *ParcelService) ListAssigned(ctx context.Context, deliveryPersonEmail string) ([]domain.Parcel, error) {
	return s.parcels.ListByDeliveryPerson(ctx, deliveryPersonEmail)
}

// CompleteDelivery records the outcome of a delivery by its assignee.
func (s *ParcelService) CompleteDelivery(ctx context.Context, deliveryPersonEmail, id string, status domain.ParcelStatus) error {
	var event events.EventType
	switch status {
	case domain.ParcelStatusDelivered:
		event = events.EventParcelDelivered
	case domain.ParcelStatusReturned:
		event = events.EventParcelReturned
	default:
		return apperrors.NewValidationError("status must be delivered or returned", map[string]any{"status": string(status)})
	}

	matched, err := s.parcels.UpdateDeliveryStatus(ctx, id, deliveryPersonEmail, status)
	if err != nil {
		return err
	}
	if matched == 0 {
		return apperrors.NewNotFound("assigned parcel", map[string]any{"id": id})
	}

	s.publishParcel(ctx, event, deliveryPersonEmail, &domain.Parcel{
		ID:                  id,
		Status:              status,
		DeliveryPersonEmail: &deliveryPersonEmail,
	})
	return nil
}

func (s *ParcelService) publishParcel(ctx context.Context, eventType events.EventType, actor string, parcel *domain.Parcel) {
	payload := events.ParcelPayload{
		ParcelID:   parcel.ID,
		OwnerEmail: parcel.Email,
		Status:     parcel.Status,
	}
	if parcel.DeliveryPersonEmail != nil {
		payload.DeliveryPersonEmail = *parcel.DeliveryPersonEmail
	}
	_ = s.dispatcher.Publish(ctx, events.Event{Type: eventType, Actor: actor, Payload: payload})
}
