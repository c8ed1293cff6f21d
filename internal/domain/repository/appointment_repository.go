package repository

import (
	"context"
	"time"

	"go-medical-appointment/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create inserts a SCHEDULED row; a second active row for the same
	// (doctor, time) fails with entity.ErrSlotTaken.
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	CancelIfActive(ctx context.Context, id uuid.UUID) (int64, error)
	// UpdateLocked loads the row under a write lock, applies mutate and saves it
	// in one transaction. Errors from mutate abort the transaction unchanged.
	UpdateLocked(ctx context.Context, id uuid.UUID, mutate func(*entity.Appointment) error) (*entity.Appointment, error)
	FindActiveByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	FindActiveByClientFrom(ctx context.Context, clientID uuid.UUID, asOf time.Time) ([]entity.Appointment, error)
	FindFiltered(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error)
}
