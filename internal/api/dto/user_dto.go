package dto

import "github.com/spec-kit/parcel-service/internal/domain"

// TokenResponse is returned by POST /jwt.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserRegisterRequest payload for new users. Any role in the body is ignored.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
	Phone    string `json:"phone"`
}

// ToDomain converts the request into a user record.
func (r UserRegisterRequest) ToDomain() domain.User {
	return domain.User{Name: r.Name, Email: r.Email, PhotoURL: r.PhotoURL, Phone: r.Phone}
}

// InsertResponse mirrors the result of creating a record.
type InsertResponse struct {
	Message    string  `json:"message,omitempty"`
	InsertedID *string `json:"insertedId"`
}

// UpdateResponse reports matched and modified record counts.
type UpdateResponse struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResponse reports deleted record counts.
type DeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}
