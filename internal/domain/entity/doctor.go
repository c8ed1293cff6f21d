package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a bookable provider. The directory owns it; the booking engine only reads it.
type Doctor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	PhoneNumber    string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Email          string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	IsActive       bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	WorkingHours []WorkingHours `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"working_hours,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// FullName returns "First Last"
func (d *Doctor) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// HoursOn returns the working-hours entries for the given weekday in stored order.
func (d *Doctor) HoursOn(day time.Weekday) []WorkingHours {
	var out []WorkingHours
	for _, wh := range d.WorkingHours {
		if wh.DayOfWeek == day {
			out = append(out, wh)
		}
	}
	return out
}
