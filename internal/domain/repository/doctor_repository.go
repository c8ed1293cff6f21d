package repository

import (
	"context"

	"go-medical-appointment/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context, specialization string) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	ReplaceWorkingHours(ctx context.Context, doctorID uuid.UUID, hours []entity.WorkingHours) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}
