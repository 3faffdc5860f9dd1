// Package models holds the payloads exchanged with the marketplace API.
package models

// User is an account as returned by /user and /admin/users.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Profile is the editable part of the current user's account. Password is
// sent only when it changes.
type Profile struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

// RoleUpdate is the body of PUT /admin/users/:id.
type RoleUpdate struct {
	Role string `json:"role" validate:"oneof=user admin"`
}

// StatusUpdate is the body of PUT /admin/test-drives/:id and /admin/bids/:id.
type StatusUpdate struct {
	Status string `json:"status" validate:"oneof=pending approved rejected"`
}

// Review states of bids and test drives.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)
