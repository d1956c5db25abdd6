package domain

import "time"

// Role is the elevated permission carried by a user record. The zero value means no role.
type Role string

const (
	RoleNone           Role = ""
	RoleAdmin          Role = "admin"
	RoleDeliveryPerson Role = "deliveryPerson"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAdmin, RoleDeliveryPerson:
		return true
	}
	return false
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// User is a registered identity, keyed by email.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasRole reports whether the user carries role r.
func (u *User) HasRole(r Role) bool {
	return u != nil && r != RoleNone && u.Role == r
}
