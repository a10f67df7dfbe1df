package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	UserStatusActive = "active"
	UserStatusGuest  = "guest" // created implicitly by a booking
)

// User is a customer or staff account. Users are never hard-deleted.
type User struct {
	ID                   string    `bson:"id" json:"id"`
	FirstName            string    `bson:"firstName" json:"firstName"`
	LastName             string    `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email                string    `bson:"email" json:"email"`
	PhoneNumber          string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Country              string    `bson:"country,omitempty" json:"country,omitempty"`
	Img                  string    `bson:"img,omitempty" json:"img,omitempty"`
	IdentificationNumber string    `bson:"identificationNumber,omitempty" json:"identificationNumber,omitempty"`
	PasswordHash         string    `bson:"passwordHash,omitempty" json:"-"`
	Role                 string    `bson:"role" json:"role"`
	Status               string    `bson:"status" json:"status"`
	CreatedAt            time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user is staff.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary returns the public subset embedded into booking responses.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

// UserSummary is the customer view attached to bookings and invoices.
type UserSummary struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
	Password    string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateRequest lists the only profile fields a client may change.
type UserUpdateRequest struct {
	FirstName            *string `json:"firstName,omitempty"`
	LastName             *string `json:"lastName,omitempty"`
	PhoneNumber          *string `json:"phoneNumber,omitempty"`
	Country              *string `json:"country,omitempty"`
	Img                  *string `json:"img,omitempty"`
	IdentificationNumber *string `json:"identificationNumber,omitempty"`
}
