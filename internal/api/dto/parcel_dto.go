package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// DateLayout is the calendar date format accepted alongside RFC 3339.
const DateLayout = "2006-01-02"

// ParseDate accepts either YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

// ParcelRequest payload for booking a parcel.
type ParcelRequest struct {
	Email                 string  `json:"email"`
	Name                  string  `json:"name"`
	Phone                 string  `json:"phone"`
	ParcelType            string  `json:"parcelType"`
	Weight                float64 `json:"weight"`
	ReceiverName          string  `json:"receiverName"`
	ReceiverPhone         string  `json:"receiverPhone"`
	DeliveryAddress       string  `json:"deliveryAddress"`
	RequestedDeliveryDate string  `json:"requestedDeliveryDate"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	Price                 float64 `json:"price"`
}

// ToDomain converts the request into a parcel. An empty date is left zero for validation.
func (r ParcelRequest) ToDomain() (domain.Parcel, error) {
	parcel := domain.Parcel{
		Email:           r.Email,
		Name:            r.Name,
		Phone:           r.Phone,
		ParcelType:      r.ParcelType,
		Weight:          r.Weight,
		ReceiverName:    r.ReceiverName,
		ReceiverPhone:   r.ReceiverPhone,
		DeliveryAddress: r.DeliveryAddress,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Price:           r.Price,
	}
	if r.RequestedDeliveryDate != "" {
		date, err := ParseDate(r.RequestedDeliveryDate)
		if err != nil {
			return domain.Parcel{}, err
		}
		parcel.RequestedDeliveryDate = date
	}
	return parcel, nil
}

// ParcelPatchRequest payload for partial parcel updates.
type ParcelPatchRequest struct {
	Name                  *string  `json:"name"`
	Phone                 *string  `json:"phone"`
	ParcelType            *string  `json:"parcelType"`
	Weight                *float64 `json:"weight"`
	ReceiverName          *string  `json:"receiverName"`
	ReceiverPhone         *string  `json:"receiverPhone"`
	DeliveryAddress       *string  `json:"deliveryAddress"`
	RequestedDeliveryDate *string  `json:"requestedDeliveryDate"`
	Latitude              *float64 `json:"latitude"`
	Longitude             *float64 `json:"longitude"`
	Price                 *float64 `json:"price"`
	Status                *string  `json:"status"`
}

// ToDomain converts the request into a patch.
func (r ParcelPatchRequest) ToDomain() (domain.ParcelPatch, error) {
	patch := domain.ParcelPatch{
		Name:            r.Name,
		Phone:           r.Phone,
		ParcelType:      r.ParcelType,
		Weight:          r.Weight,
		ReceiverName:    r.ReceiverName,
		ReceiverPhone:   r.ReceiverPhone,
		DeliveryAddress: r.DeliveryAddress,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Price:           r.Price,
	}
	if r.RequestedDeliveryDate != nil {
		date, err := ParseDate(*r.RequestedDeliveryDate)
		if err != nil {
			return domain.ParcelPatch{}, err
		}
		patch.RequestedDeliveryDate = &date
	}
	if r.Status != nil {
		status := domain.ParcelStatus(*r.Status)
		patch.Status = &status
	}
	return patch, nil
}

// AssignRequest payload for handing a parcel to a delivery person.
type AssignRequest struct {
	DeliveryPersonEmail     string `json:"deliveryPersonEmail"`
	ApproximateDeliveryDate string `json:"approximateDeliveryDate"`
}

// DeliveryStatusRequest payload for a delivery person closing a delivery.
type DeliveryStatusRequest struct {
	Status string `json:"status"`
}
