package domain

import "time"

// ParcelStatus tracks a booking through delivery.
type ParcelStatus string

const (
	ParcelStatusPending   ParcelStatus = "pending"
	ParcelStatusOnTheWay  ParcelStatus = "onTheWay"
	ParcelStatusDelivered ParcelStatus = "delivered"
	ParcelStatusReturned  ParcelStatus = "returned"
	ParcelStatusCancelled ParcelStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s ParcelStatus) Valid() bool {
	switch s {
	case ParcelStatusPending, ParcelStatusOnTheWay, ParcelStatusDelivered, ParcelStatusReturned, ParcelStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tells whether a parcel booking has been paid for.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// Parcel is a booked delivery owned by the booking user's email.
type Parcel struct {
	ID                      string        `json:"id"`
	Email                   string        `json:"email"`
	Name                    string        `json:"name"`
	Phone                   string        `json:"phone"`
	ParcelType              string        `json:"parcelType"`
	Weight                  float64       `json:"weight"`
	ReceiverName            string        `json:"receiverName"`
	ReceiverPhone           string        `json:"receiverPhone"`
	DeliveryAddress         string        `json:"deliveryAddress"`
	RequestedDeliveryDate   time.Time     `json:"requestedDeliveryDate"`
	ApproximateDeliveryDate *time.Time    `json:"approximateDeliveryDate,omitempty"`
	Latitude                float64       `json:"latitude"`
	Longitude               float64       `json:"longitude"`
	Price                   float64       `json:"price"`
	Status                  ParcelStatus  `json:"status"`
	PaymentStatus           PaymentStatus `json:"paymentStatus"`
	DeliveryPersonEmail     *string       `json:"deliveryPersonEmail,omitempty"`
	CreatedAt               time.Time     `json:"createdAt"`
	UpdatedAt               time.Time     `json:"updatedAt"`
}

// ParcelPatch carries the booking fields a PATCH may change. Nil fields are left untouched.
type ParcelPatch struct {
	Name                  *string
	Phone                 *string
	ParcelType            *string
	Weight                *float64
	ReceiverName          *string
	ReceiverPhone         *string
	DeliveryAddress       *string
	RequestedDeliveryDate *time.Time
	Latitude              *float64
	Longitude             *float64
	Price                 *float64
	Status                *ParcelStatus
}

// Empty reports whether the patch changes nothing.
func (p ParcelPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.ParcelType == nil && p.Weight == nil &&
		p.ReceiverName == nil && p.ReceiverPhone == nil && p.DeliveryAddress == nil &&
		p.RequestedDeliveryDate == nil && p.Latitude == nil && p.Longitude == nil &&
		p.Price == nil && p.Status == nil
}
