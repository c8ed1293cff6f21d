package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for the staff appointment listing.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	StartDate     *time.Time // inclusive, by calendar date
	EndDate       *time.Time // inclusive, by calendar date
	DoctorID      *uuid.UUID
	Status        *AppointmentStatus
	SortField     string
	SortDirection string
}

// Sortable columns. Keys include the camelCase names older clients send.
var appointmentSortColumns = map[string]string{
	"":                 "appointment_time",
	"appointment_time": "appointment_time",
	"appointmentTime":  "appointment_time",
	"created_at":       "created_at",
	"createdAt":        "created_at",
	"status":           "status",
}

// SortColumn resolves SortField to a whitelisted column name.
func (f AppointmentFilter) SortColumn() (string, bool) {
	col, ok := appointmentSortColumns[f.SortField]
	return col, ok
}

// Descending resolves SortDirection; empty means ascending.
func (f AppointmentFilter) Descending() (bool, bool) {
	switch f.SortDirection {
	case "", "asc", "ASC":
		return false, true
	case "desc", "DESC":
		return true, true
	}
	return false, false
}

// Validate checks range and sort options.
func (f AppointmentFilter) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return ErrInvalidRange
	}
	if _, ok := f.SortColumn(); !ok {
		return ErrInvalidSort
	}
	if _, ok := f.Descending(); !ok {
		return ErrInvalidSort
	}
	if f.Status != nil && !f.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
