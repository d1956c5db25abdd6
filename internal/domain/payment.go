package domain

import "time"

// Payment records a completed checkout for one or more parcels.
type Payment struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transactionId"`
	ParcelIDs     []string  `json:"parcelIds"`
	CreatedAt     time.Time `json:"createdAt"`
}
