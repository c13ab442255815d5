package models

import "time"

// Role decides which order operations an account may trigger.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleReader Role = "reader"
)

// User is a client, reader or admin account, referenced by orders via
// clientId/readerId. Profile fields are edited through a separate flow.
type User struct {
	ID           int64     `json:"id"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	AddressOne   string    `json:"addressOne,omitempty"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest registers a client or reader account. Admin accounts are
// seeded, never self-served.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"required,oneof=client reader"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}
