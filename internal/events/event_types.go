package events

import (
	"time"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventParcelBooked    EventType = "parcel_booked"
	EventParcelAssigned  EventType = "parcel_assigned"
	EventParcelDelivered EventType = "parcel_delivered"
	EventParcelReturned  EventType = "parcel_returned"
	EventUserRoleChanged EventType = "user_role_changed"
	EventPaymentRecorded EventType = "payment_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ParcelPayload describes parcel lifecycle events.
type ParcelPayload struct {
	ParcelID            string              `json:"parcel_id"`
	OwnerEmail          string              `json:"owner_email"`
	Status              domain.ParcelStatus `json:"status"`
	DeliveryPersonEmail string              `json:"delivery_person_email,omitempty"`
}

// RoleChangedPayload payload.
type RoleChangedPayload struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	PaymentID     string   `json:"payment_id"`
	Email         string   `json:"email"`
	Price         float64  `json:"price"`
	TransactionID string   `json:"transaction_id"`
	ParcelIDs     []string `json:"parcel_ids"`
}
