package usecase

import (
	"context"
	"errors"

	"go-medical-appointment/internal/converter"
	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/domain/repository"
	"go-medical-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context, specialization string, activeOnly bool) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	ReplaceWorkingHours(ctx context.Context, doctorID uuid.UUID, req *dto.ReplaceWorkingHoursRequest) (*dto.DoctorResponse, error)
	SetDoctorStatus(ctx context.Context, doctorID uuid.UUID, active bool) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
	SeedDefaultDoctors(ctx context.Context) error
}

type doctorUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	hours, err := converter.WorkingHoursFromRequest(req.WorkingHours)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidateWorkingHours(hours); err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		IsActive:       true,
		WorkingHours:   hours,
	}

	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	resp := converter.DoctorToResponse(doctor)
	u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), resp)
	return resp, nil
}

func (u *doctorUsecase) findDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, entity.ErrDoctorNotFound
	}
	return doctor, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

// GetAllDoctors lists the directory; the public listing passes activeOnly.
func (u *doctorUsecase) GetAllDoctors(ctx context.Context, specialization string, activeOnly bool) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx, specialization)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	if activeOnly {
		active := doctors[:0]
		for _, d := range doctors {
			if d.IsActive {
				active = append(active, d)
			}
		}
		doctors = active
	}

	return converter.DoctorsToListResponse(doctors), nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	// Capture old value for audit
	oldValue := converter.DoctorToResponse(doctor)

	if req.FirstName != "" {
		doctor.FirstName = req.FirstName
	}
	if req.LastName != "" {
		doctor.LastName = req.LastName
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.PhoneNumber != "" {
		doctor.PhoneNumber = req.PhoneNumber
	}
	if req.Email != "" {
		doctor.Email = req.Email
	}

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), oldValue, newValue)
	return newValue, nil
}

// ReplaceWorkingHours swaps the weekly plan. Overlapping windows on one weekday are rejected.
func (u *doctorUsecase) ReplaceWorkingHours(ctx context.Context, doctorID uuid.UUID, req *dto.ReplaceWorkingHoursRequest) (*dto.DoctorResponse, error) {
	hours, err := converter.WorkingHoursFromRequest(req.WorkingHours)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidateWorkingHours(hours); err != nil {
		return nil, err
	}

	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	oldValue := converter.DoctorToResponse(doctor)

	if err := u.doctorRepo.ReplaceWorkingHours(ctx, doctorID, hours); err != nil {
		u.log.Warnf("Failed to replace working hours: %+v", err)
		return nil, err
	}

	doctor, err = u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionDoctorWorkingHours, "doctor", doctorID.String(), oldValue.WorkingHours, newValue.WorkingHours)
	return newValue, nil
}

func (u *doctorUsecase) SetDoctorStatus(ctx context.Context, doctorID uuid.UUID, active bool) (*dto.DoctorResponse, error) {
	affected, err := u.doctorRepo.SetActive(ctx, doctorID, active)
	if err != nil {
		u.log.Warnf("Failed to update doctor status: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, entity.ErrDoctorNotFound
	}

	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionDoctorUpdate, "doctor", doctorID.String(),
		map[string]bool{"is_active": !active}, map[string]bool{"is_active": active})
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return err
	}
	oldValue := converter.DoctorToResponse(doctor)

	affectedRows, err := u.doctorRepo.Delete(ctx, doctorID)
	if err != nil {
		if !errors.Is(err, entity.ErrDoctorHasAppointments) {
			u.log.Warnf("Failed delete doctor: %+v", err)
		}
		return err
	}
	if affectedRows == 0 {
		return entity.ErrDoctorNotFound
	}

	u.auditService.LogDelete(ctx, actorFromContext(ctx), entity.AuditActionDoctorDelete, "doctor", doctorID.String(), oldValue)
	return nil
}

// SeedDefaultDoctors fills an empty directory so a fresh install can take bookings.
func (u *doctorUsecase) SeedDefaultDoctors(ctx context.Context) error {
	total, err := u.doctorRepo.Count(ctx)
	if err != nil {
		u.log.Warnf("Failed to count doctors: %+v", err)
		return err
	}
	if total > 0 {
		return nil
	}

	for _, d := range defaultDoctors() {
		doctor := d
		if err := u.doctorRepo.Create(ctx, &doctor); err != nil {
			u.log.Warnf("Failed to seed doctor %s: %+v", doctor.FullName(), err)
			return err
		}
	}

	u.log.Infof("Seeded %d default doctors", len(defaultDoctors()))
	return nil
}

func defaultDoctors() []entity.Doctor {
	return []entity.Doctor{
		{FirstName: "Adam", LastName: "Hart", Specialization: "General Practitioner", PhoneNumber: "+10001234567", Email: "adam.hart@clinic.example", IsActive: true},
		{FirstName: "Maya", LastName: "Okafor", Specialization: "Cardiologist", PhoneNumber: "+10009876543", Email: "maya.okafor@clinic.example", IsActive: true},
		{FirstName: "Lucas", LastName: "Brandt", Specialization: "Neurologist", PhoneNumber: "+10005554433", Email: "lucas.brandt@clinic.example", IsActive: true},
		{FirstName: "Sofia", LastName: "Reyes", Specialization: "Pediatrician", PhoneNumber: "+10007778899", Email: "sofia.reyes@clinic.example", IsActive: true},
		{FirstName: "Daniel", LastName: "Kim", Specialization: "Surgeon", PhoneNumber: "+10003332211", Email: "daniel.kim@clinic.example", IsActive: true},
	}
}
