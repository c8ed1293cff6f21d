package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type WorkingHoursRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type CreateDoctorRequest struct {
	FirstName      string                `json:"first_name" validate:"required,min=2"`
	LastName       string                `json:"last_name" validate:"omitempty"`
	Specialization string                `json:"specialization" validate:"required"`
	PhoneNumber    string                `json:"phone_number" validate:"omitempty,min=10,max=20"`
	Email          string                `json:"email" validate:"omitempty,email"`
	WorkingHours   []WorkingHoursRequest `json:"working_hours" validate:"omitempty,dive"`
}

type UpdateDoctorRequest struct {
	FirstName      string `json:"first_name" validate:"omitempty,min=2"`
	LastName       string `json:"last_name" validate:"omitempty"`
	Specialization string `json:"specialization" validate:"omitempty"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,min=10,max=20"`
	Email          string `json:"email" validate:"omitempty,email"`
}

type ReplaceWorkingHoursRequest struct {
	WorkingHours []WorkingHoursRequest `json:"working_hours" validate:"dive"`
}

type UpdateDoctorStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

type WorkingHoursResponse struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type DoctorResponse struct {
	ID             uuid.UUID              `json:"id"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	FullName       string                 `json:"full_name"`
	Specialization string                 `json:"specialization"`
	PhoneNumber    string                 `json:"phone_number,omitempty"`
	Email          string                 `json:"email,omitempty"`
	IsActive       bool                   `json:"is_active"`
	WorkingHours   []WorkingHoursResponse `json:"working_hours"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
