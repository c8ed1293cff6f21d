package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is a closed enumeration; only the constants below are valid.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCancelled:
		return true
	}
	return false
}

// ParseAppointmentStatus accepts the status names case-sensitively as stored.
func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	s := AppointmentStatus(raw)
	return s, s.Valid()
}

// Appointment is the single mutable record of the booking ledger.
// At most one SCHEDULED row may exist per (DoctorID, AppointmentTime); the
// partial unique index uq_appointments_doctor_time_active enforces it.
type Appointment struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClientID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"client_id"`
	DoctorID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentTime   time.Time         `gorm:"not null;index" json:"appointment_time"`
	Status            AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index" json:"status"`
	RescheduleCount   int               `gorm:"not null;default:0" json:"reschedule_count"`
	LastRescheduledAt *time.Time        `json:"last_rescheduled_at,omitempty"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Client *User   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if the appointment still holds its slot
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsOwnedBy checks the client foreign key
func (a *Appointment) IsOwnedBy(clientID uuid.UUID) bool {
	return a.ClientID == clientID
}

// Cancel changes appointment status to cancelled
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
}

// MoveTo mutates the timestamp in place and bumps the reschedule counter.
func (a *Appointment) MoveTo(newTime, at time.Time) {
	a.AppointmentTime = newTime
	a.RescheduleCount++
	a.LastRescheduledAt = &at
}

// SlotAvailability is one grid point of a doctor's day.
type SlotAvailability struct {
	Time time.Time
	Free bool
}
