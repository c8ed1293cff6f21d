// Package memory holds map-backed repositories with the same conflict
// semantics as the postgres ones. The service and usecase tests run on them.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-medical-appointment/internal/domain/entity"
	domainRepo "go-medical-appointment/internal/domain/repository"

	"github.com/google/uuid"
)

// AppointmentRepository enforces one SCHEDULED row per (doctor, time) the way
// the partial unique index does.
type AppointmentRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
	now          func() time.Time
}

var _ domainRepo.AppointmentRepository = (*AppointmentRepository)(nil)

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{
		appointments: make(map[uuid.UUID]*entity.Appointment),
		now:          time.Now,
	}
}

func (r *AppointmentRepository) slotHeld(doctorID uuid.UUID, at time.Time, except uuid.UUID) bool {
	for id, a := range r.appointments {
		if id != except && a.DoctorID == doctorID && a.IsScheduled() && a.AppointmentTime.Equal(at) {
			return true
		}
	}
	return false
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appointment.Status == "" {
		appointment.Status = entity.AppointmentStatusScheduled
	}
	if appointment.IsScheduled() && r.slotHeld(appointment.DoctorID, appointment.AppointmentTime, uuid.Nil) {
		return entity.ErrSlotTaken
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := r.now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	stored := *appointment
	r.appointments[stored.ID] = &stored
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *AppointmentRepository) CancelIfActive(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok || a.IsCancelled() {
		return 0, nil
	}
	a.Cancel()
	a.UpdatedAt = r.now()
	return 1, nil
}

// UpdateLocked holds the repository mutex for the whole mutation; the stored
// row only changes when mutate succeeds and the new slot is free.
func (r *AppointmentRepository) UpdateLocked(ctx context.Context, id uuid.UUID, mutate func(*entity.Appointment) error) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[id]
	if !ok {
		return nil, entity.ErrAppointmentNotFound
	}

	working := *stored
	if err := mutate(&working); err != nil {
		return nil, err
	}
	if working.IsScheduled() && r.slotHeld(working.DoctorID, working.AppointmentTime, id) {
		return nil, entity.ErrSlotTaken
	}

	working.UpdatedAt = r.now()
	*stored = working
	out := working
	return &out, nil
}

func (r *AppointmentRepository) FindActiveByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	return r.collect(func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && !a.IsCancelled() &&
			!a.AppointmentTime.Before(from) && a.AppointmentTime.Before(to)
	}, "appointment_time", false), nil
}

func (r *AppointmentRepository) FindActiveByClientFrom(ctx context.Context, clientID uuid.UUID, asOf time.Time) ([]entity.Appointment, error) {
	return r.collect(func(a *entity.Appointment) bool {
		return a.ClientID == clientID && !a.IsCancelled() && !a.AppointmentTime.Before(asOf)
	}, "appointment_time", false), nil
}

func (r *AppointmentRepository) FindFiltered(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	column, ok := filter.SortColumn()
	if !ok {
		return nil, entity.ErrInvalidSort
	}
	desc, ok := filter.Descending()
	if !ok {
		return nil, entity.ErrInvalidSort
	}

	var from, to *time.Time
	if filter.StartDate != nil {
		t := startOfDay(*filter.StartDate)
		from = &t
	}
	if filter.EndDate != nil {
		t := startOfDay(*filter.EndDate).AddDate(0, 0, 1)
		to = &t
	}

	return r.collect(func(a *entity.Appointment) bool {
		if from != nil && a.AppointmentTime.Before(*from) {
			return false
		}
		if to != nil && !a.AppointmentTime.Before(*to) {
			return false
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			return false
		}
		if filter.Status != nil && a.Status != *filter.Status {
			return false
		}
		return true
	}, column, desc), nil
}

func (r *AppointmentRepository) collect(match func(*entity.Appointment) bool, column string, desc bool) []entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []entity.Appointment{}
	for _, a := range r.appointments {
		if match(a) {
			out = append(out, *a)
		}
	}

	less := func(i, j int) bool {
		switch column {
		case "created_at":
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case "status":
			return out[i].Status < out[j].Status
		default:
			return out[i].AppointmentTime.Before(out[j].AppointmentTime)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
