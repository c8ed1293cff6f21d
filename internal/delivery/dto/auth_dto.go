package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterClientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required,min=2"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateStaffRequest leaves Password empty to have one generated.
type CreateStaffRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	FullName    string `json:"full_name" validate:"required,min=2"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=20"`
	Role        string `json:"role" validate:"required,oneof=admin receptionist"`
}

type UpdateStaffRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	FullName    string `json:"full_name" validate:"omitempty,min=2"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=20"`
	Role        string `json:"role" validate:"omitempty,oneof=admin receptionist"`
	NewPassword string `json:"new_password" validate:"omitempty,min=8"`
}

type UpdateStaffStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StaffCreatedResponse carries a generated password exactly once.
type StaffCreatedResponse struct {
	User              *UserResponse `json:"user"`
	GeneratedPassword string        `json:"generated_password,omitempty"`
}

type StaffListResponse struct {
	Staff []UserResponse `json:"staff"`
	Page  int            `json:"-"`
	Limit int            `json:"-"`
	Total int64          `json:"-"`
}
