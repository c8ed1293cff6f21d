package repository

import (
	"context"
	"errors"
	"time"

	"go-medical-appointment/internal/domain/entity"
	domainRepo "go-medical-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// appointmentSlotConstraint is the partial unique index over
// (doctor_id, appointment_time) WHERE status = 'SCHEDULED'.
const appointmentSlotConstraint = "uq_appointments_doctor_time_active"

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create relies on the unique index instead of a prior existence check, so two
// concurrent bookings of one slot cannot both succeed.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	err := r.db.WithContext(ctx).Omit("Client", "Doctor").Create(appointment).Error
	if isUniqueViolation(err, appointmentSlotConstraint) {
		return entity.ErrSlotTaken
	}
	return err
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// CancelIfActive cancels only a non-cancelled appointment.
// Returns affected rows: 1 = cancelled now, 0 = missing or already cancelled.
func (r *appointmentRepository) CancelIfActive(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status <> ?", id, entity.AppointmentStatusCancelled).
		Update("status", entity.AppointmentStatusCancelled)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateLocked(ctx context.Context, id uuid.UUID, mutate func(*entity.Appointment) error) (*entity.Appointment, error) {
	var appointment entity.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&appointment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrAppointmentNotFound
			}
			return err
		}

		if err := mutate(&appointment); err != nil {
			return err
		}

		return tx.Model(&appointment).
			Select("appointment_time", "status", "reschedule_count", "last_rescheduled_at", "updated_at").
			Updates(&appointment).Error
	})
	if err != nil {
		if isUniqueViolation(err, appointmentSlotConstraint) {
			return nil, entity.ErrSlotTaken
		}
		return nil, err
	}

	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_time >= ? AND appointment_time < ? AND status <> ?",
			doctorID, from, to, entity.AppointmentStatusCancelled).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveByClientFrom(ctx context.Context, clientID uuid.UUID, asOf time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor").
		Where("client_id = ? AND appointment_time >= ? AND status <> ?",
			clientID, asOf, entity.AppointmentStatusCancelled).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindFiltered AND-combines the optional filters. Date bounds are inclusive calendar days.
func (r *appointmentRepository) FindFiltered(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	column, ok := filter.SortColumn()
	if !ok {
		return nil, entity.ErrInvalidSort
	}
	desc, ok := filter.Descending()
	if !ok {
		return nil, entity.ErrInvalidSort
	}

	query := r.db.WithContext(ctx).Model(&entity.Appointment{})

	if filter.StartDate != nil {
		query = query.Where("appointment_time >= ?", startOfDay(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("appointment_time < ?", startOfDay(*filter.EndDate).AddDate(0, 0, 1))
	}
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var appointments []entity.Appointment
	err := query.
		Preload("Doctor").Preload("Client").
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
