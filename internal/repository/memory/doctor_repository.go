package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-medical-appointment/internal/domain/entity"
	domainRepo "go-medical-appointment/internal/domain/repository"

	"github.com/google/uuid"
)

type DoctorRepository struct {
	mu      sync.RWMutex
	doctors map[uuid.UUID]*entity.Doctor
}

var _ domainRepo.DoctorRepository = (*DoctorRepository)(nil)

func NewDoctorRepository(doctors ...entity.Doctor) *DoctorRepository {
	r := &DoctorRepository{doctors: make(map[uuid.UUID]*entity.Doctor)}
	for i := range doctors {
		_ = r.Create(context.Background(), &doctors[i])
	}
	return r
}

func cloneDoctor(d *entity.Doctor) *entity.Doctor {
	out := *d
	out.WorkingHours = append([]entity.WorkingHours(nil), d.WorkingHours...)
	return &out
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	for i := range doctor.WorkingHours {
		doctor.WorkingHours[i].DoctorID = doctor.ID
	}
	r.doctors[doctor.ID] = cloneDoctor(doctor)
	return nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	return cloneDoctor(d), nil
}

func (r *DoctorRepository) FindAll(ctx context.Context, specialization string) ([]entity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(specialization)
	out := []entity.Doctor{}
	for _, d := range r.doctors {
		if needle == "" || strings.Contains(strings.ToLower(d.Specialization), needle) {
			out = append(out, *cloneDoctor(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.doctors[doctor.ID]
	if !ok {
		return nil
	}
	hours := stored.WorkingHours
	doctor.UpdatedAt = time.Now()
	updated := cloneDoctor(doctor)
	updated.WorkingHours = hours
	r.doctors[doctor.ID] = updated
	return nil
}

func (r *DoctorRepository) ReplaceWorkingHours(ctx context.Context, doctorID uuid.UUID, hours []entity.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.doctors[doctorID]
	if !ok {
		return nil
	}
	replaced := make([]entity.WorkingHours, len(hours))
	for i, wh := range hours {
		wh.ID = i + 1
		wh.DoctorID = doctorID
		replaced[i] = wh
	}
	stored.WorkingHours = replaced
	return nil
}

func (r *DoctorRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return 0, nil
	}
	d.IsActive = active
	d.UpdatedAt = time.Now()
	return 1, nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return 0, nil
	}
	delete(r.doctors, id)
	return 1, nil
}

func (r *DoctorRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.doctors)), nil
}
