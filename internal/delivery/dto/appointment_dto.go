package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string    `json:"time" validate:"required,datetime=15:04"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// AppointmentFilterQuery mirrors the staff listing query string.
type AppointmentFilterQuery struct {
	StartDate     string `validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `validate:"omitempty,datetime=2006-01-02"`
	DoctorID      string `validate:"omitempty,uuid"`
	Status        string `validate:"omitempty,oneof=SCHEDULED CANCELLED"`
	SortBy        string `validate:"omitempty"`
	SortDirection string `validate:"omitempty,oneof=asc desc ASC DESC"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                uuid.UUID  `json:"id"`
	ClientID          uuid.UUID  `json:"client_id"`
	ClientName        string     `json:"client_name,omitempty"`
	DoctorID          uuid.UUID  `json:"doctor_id"`
	DoctorName        string     `json:"doctor_name,omitempty"`
	Specialization    string     `json:"specialization,omitempty"`
	AppointmentTime   time.Time  `json:"appointment_time"`
	Status            string     `json:"status"`
	RescheduleCount   int        `json:"reschedule_count"`
	LastRescheduledAt *time.Time `json:"last_rescheduled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailableDatesResponse struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Dates     []string  `json:"dates"`
}

type SlotResponse struct {
	Time      string    `json:"time"`
	StartsAt  time.Time `json:"starts_at"`
	Available bool      `json:"available"`
}

type AvailableSlotsResponse struct {
	DoctorID uuid.UUID      `json:"doctor_id"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

// RescheduleOptionsResponse starts a reschedule: the appointment plus the dates it may move to.
type RescheduleOptionsResponse struct {
	Appointment AppointmentResponse    `json:"appointment"`
	Available   AvailableDatesResponse `json:"available"`
}
