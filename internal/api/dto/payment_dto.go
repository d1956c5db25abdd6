package dto

import "github.com/spec-kit/parcel-service/internal/domain"

// PaymentIntentRequest payload for starting a card payment.
type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

// PaymentIntentResponse carries the client secret for the browser SDK.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PaymentRequest payload for recording a completed payment.
type PaymentRequest struct {
	Email         string   `json:"email"`
	Price         float64  `json:"price"`
	TransactionID string   `json:"transactionId"`
	ParcelIDs     []string `json:"parcelIds"`
}

// ToDomain converts the request into a payment.
func (r PaymentRequest) ToDomain() domain.Payment {
	return domain.Payment{
		Email:         r.Email,
		Price:         r.Price,
		TransactionID: r.TransactionID,
		ParcelIDs:     r.ParcelIDs,
	}
}

// PaymentResponse reports the stored payment and the parcels it settled.
type PaymentResponse struct {
	InsertedID    string `json:"insertedId"`
	ModifiedCount int64  `json:"modifiedCount"`
}
