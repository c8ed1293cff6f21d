package usecase

import (
	"context"
	"errors"
	"time"

	"go-medical-appointment/internal/converter"
	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/delivery/http/middleware"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/domain/repository"
	"go-medical-appointment/internal/infrastructure/metrics"
	"go-medical-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AppointmentUsecase is the scheduling facade used by the HTTP surface.
type AppointmentUsecase interface {
	StartBooking(ctx context.Context, doctorID uuid.UUID) (*dto.AvailableDatesResponse, error)
	ListAvailableDates(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*dto.AvailableDatesResponse, error)
	ListAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) (*dto.AvailableSlotsResponse, error)
	Book(ctx context.Context, clientID, doctorID uuid.UUID, at time.Time) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	CancelForClient(ctx context.Context, clientID, id uuid.UUID) (*dto.AppointmentListResponse, error)
	StartReschedule(ctx context.Context, clientID, id uuid.UUID) (*dto.RescheduleOptionsResponse, error)
	Reschedule(ctx context.Context, clientID, id uuid.UUID, newTime time.Time) (*dto.AppointmentResponse, error)
	ListClientAppointments(ctx context.Context, clientID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListFiltered(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	log          *logrus.Logger
	policy       *service.TimeWindowPolicy
	grid         *service.SlotGrid
	availability service.AvailabilityService
	ledger       service.BookingLedger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	metrics      *metrics.BookingMetrics
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	policy *service.TimeWindowPolicy,
	grid *service.SlotGrid,
	availability service.AvailabilityService,
	ledger service.BookingLedger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	bookingMetrics *metrics.BookingMetrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:          log,
		policy:       policy,
		grid:         grid,
		availability: availability,
		ledger:       ledger,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		metrics:      bookingMetrics,
	}
}

func (u *appointmentUsecase) findBookableDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, entity.ErrDoctorNotFound
	}
	if !doctor.IsActive {
		return nil, entity.ErrDoctorInactive
	}
	return doctor, nil
}

// findOwned loads an appointment and checks it belongs to clientID.
func (u *appointmentUsecase) findOwned(ctx context.Context, clientID, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.IsOwnedBy(clientID) {
		return nil, entity.ErrNotOwner
	}
	return appointment, nil
}

func (u *appointmentUsecase) StartBooking(ctx context.Context, doctorID uuid.UUID) (*dto.AvailableDatesResponse, error) {
	start, end := u.policy.BookingWindow()
	return u.ListAvailableDates(ctx, doctorID, start, end)
}

func (u *appointmentUsecase) ListAvailableDates(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*dto.AvailableDatesResponse, error) {
	start, end = u.policy.DateOf(start), u.policy.DateOf(end)
	if start.After(end) {
		return nil, entity.ErrInvalidRange
	}

	doctor, err := u.findBookableDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	dates, err := u.availability.AvailableDates(ctx, doctor, start, end)
	if err != nil {
		return nil, err
	}

	return converter.AvailableDatesToResponse(doctorID, start, end, dates), nil
}

func (u *appointmentUsecase) ListAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) (*dto.AvailableSlotsResponse, error) {
	doctor, err := u.findBookableDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	day := u.policy.DateOf(date)
	slots, err := u.availability.AvailableSlots(ctx, doctor, day)
	if err != nil {
		return nil, err
	}

	return converter.SlotsToResponse(doctorID, day, slots), nil
}

// Book does not retry on ErrSlotTaken; the caller lists dates again.
func (u *appointmentUsecase) Book(ctx context.Context, clientID, doctorID uuid.UUID, at time.Time) (resp *dto.AppointmentResponse, err error) {
	defer func() { u.metrics.Observe(metrics.OperationBook, outcomeOf(err)) }()

	doctor, err := u.findBookableDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if u.policy.IsPast(at) {
		return nil, entity.ErrSlotInPast
	}
	if !u.grid.OnGrid(doctor, at) {
		return nil, entity.ErrSlotNotOnGrid
	}

	appointment, err := u.ledger.Book(ctx, clientID, doctorID, at)
	if err != nil {
		return nil, err
	}
	appointment.Doctor = doctor

	resp = converter.AppointmentToResponse(appointment)
	u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), resp)
	return resp, nil
}

// Cancel is the staff path: no ownership check.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID) (resp *dto.AppointmentResponse, err error) {
	defer func() { u.metrics.Observe(metrics.OperationCancel, outcomeOf(err)) }()

	appointment, err := u.cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// CancelForClient returns what the client still has booked after the cancellation.
func (u *appointmentUsecase) CancelForClient(ctx context.Context, clientID, id uuid.UUID) (resp *dto.AppointmentListResponse, err error) {
	defer func() { u.metrics.Observe(metrics.OperationCancel, outcomeOf(err)) }()

	if _, err = u.findOwned(ctx, clientID, id); err != nil {
		return nil, err
	}
	if _, err = u.cancel(ctx, id); err != nil {
		return nil, err
	}

	remaining, err := u.ledger.ListForClient(ctx, clientID, u.policy.Today())
	if err != nil {
		return nil, err
	}
	return converter.AppointmentsToListResponse(remaining), nil
}

func (u *appointmentUsecase) cancel(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	before, err := u.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appointment, err := u.ledger.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	if before.IsScheduled() {
		u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionAppointmentCancel, "appointment", id.String(),
			converter.AppointmentToResponse(before), converter.AppointmentToResponse(appointment))
	}
	return appointment, nil
}

func (u *appointmentUsecase) StartReschedule(ctx context.Context, clientID, id uuid.UUID) (*dto.RescheduleOptionsResponse, error) {
	appointment, err := u.findOwned(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	if appointment.IsCancelled() || !u.policy.CanReschedule(appointment.AppointmentTime) {
		return nil, entity.ErrNotReschedulable
	}

	start, end := u.policy.RescheduleWindow()
	available, err := u.ListAvailableDates(ctx, appointment.DoctorID, start, end)
	if err != nil {
		return nil, err
	}

	return &dto.RescheduleOptionsResponse{
		Appointment: *converter.AppointmentToResponse(appointment),
		Available:   *available,
	}, nil
}

func (u *appointmentUsecase) Reschedule(ctx context.Context, clientID, id uuid.UUID, newTime time.Time) (resp *dto.AppointmentResponse, err error) {
	defer func() { u.metrics.Observe(metrics.OperationReschedule, outcomeOf(err)) }()

	before, err := u.findOwned(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	// checked again under the row lock by the ledger
	if before.IsCancelled() || !u.policy.CanReschedule(before.AppointmentTime) {
		return nil, entity.ErrNotReschedulable
	}
	if !u.policy.WithinRescheduleWindow(newTime) {
		return nil, entity.ErrOutsideRescheduleWindow
	}

	doctor, err := u.findBookableDoctor(ctx, before.DoctorID)
	if err != nil {
		return nil, err
	}
	if !u.grid.OnGrid(doctor, newTime) {
		return nil, entity.ErrSlotNotOnGrid
	}

	appointment, err := u.ledger.Reschedule(ctx, id, newTime)
	if err != nil {
		return nil, err
	}
	appointment.Doctor = doctor

	resp = converter.AppointmentToResponse(appointment)
	u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionAppointmentMove, "appointment", id.String(),
		converter.AppointmentToResponse(before), resp)
	return resp, nil
}

func (u *appointmentUsecase) ListClientAppointments(ctx context.Context, clientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.ledger.ListForClient(ctx, clientID, u.policy.Today())
	if err != nil {
		return nil, err
	}
	return converter.AppointmentsToListResponse(appointments), nil
}

func (u *appointmentUsecase) ListFiltered(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.ledger.ListFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentsToListResponse(appointments), nil
}

func actorFromContext(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok || userID == uuid.Nil {
		return nil
	}
	return &userID
}

// outcomeOf maps an error to a low-cardinality metrics label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entity.ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, entity.ErrSlotInPast):
		return "slot_in_past"
	case errors.Is(err, entity.ErrSlotNotOnGrid):
		return "not_on_grid"
	case errors.Is(err, entity.ErrNotReschedulable), errors.Is(err, entity.ErrOutsideRescheduleWindow):
		return "not_reschedulable"
	case errors.Is(err, entity.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, entity.ErrAppointmentNotFound), errors.Is(err, entity.ErrDoctorNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrDoctorInactive):
		return "doctor_inactive"
	}
	return "error"
}
