package service

import (
	"context"
	"errors"
	"time"

	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BookingLedger is the only writer of appointment records.
type BookingLedger interface {
	Book(ctx context.Context, clientID, doctorID uuid.UUID, at time.Time) (*entity.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) (*entity.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	ListForClient(ctx context.Context, clientID uuid.UUID, asOf time.Time) ([]entity.Appointment, error)
	ListFiltered(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	ListActiveInRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
}

type bookingLedger struct {
	log             *logrus.Logger
	policy          *TimeWindowPolicy
	appointmentRepo repository.AppointmentRepository
}

func NewBookingLedger(log *logrus.Logger, policy *TimeWindowPolicy, appointmentRepo repository.AppointmentRepository) BookingLedger {
	return &bookingLedger{
		log:             log,
		policy:          policy,
		appointmentRepo: appointmentRepo,
	}
}

// occupation is a request to hold (doctor, at). A nil appointmentID asks for a
// new record; otherwise the existing record moves there if eligible allows it.
type occupation struct {
	appointmentID *uuid.UUID
	clientID      uuid.UUID
	doctorID      uuid.UUID
	at            time.Time
	eligible      func(current *entity.Appointment) error
}

// occupy is shared by Book and Reschedule. The storage unique index decides
// conflicts, so there is no separate existence check.
func (l *bookingLedger) occupy(ctx context.Context, o occupation) (*entity.Appointment, error) {
	if l.policy.IsPast(o.at) {
		return nil, entity.ErrSlotInPast
	}

	if o.appointmentID == nil {
		appointment := &entity.Appointment{
			ClientID:        o.clientID,
			DoctorID:        o.doctorID,
			AppointmentTime: o.at,
			Status:          entity.AppointmentStatusScheduled,
		}
		if err := l.appointmentRepo.Create(ctx, appointment); err != nil {
			return nil, err
		}
		return appointment, nil
	}

	return l.appointmentRepo.UpdateLocked(ctx, *o.appointmentID, func(current *entity.Appointment) error {
		if o.eligible != nil {
			if err := o.eligible(current); err != nil {
				return err
			}
		}
		if current.AppointmentTime.Equal(o.at) {
			return entity.ErrSlotTaken
		}
		current.MoveTo(o.at, l.policy.Now())
		return nil
	})
}

func (l *bookingLedger) Book(ctx context.Context, clientID, doctorID uuid.UUID, at time.Time) (*entity.Appointment, error) {
	appointment, err := l.occupy(ctx, occupation{clientID: clientID, doctorID: doctorID, at: at})
	if err != nil {
		l.warnUnexpected("Failed to book appointment", err)
		return nil, err
	}

	l.log.Infof("Booked appointment %s for doctor %s at %s", appointment.ID, doctorID, at.Format(time.RFC3339))
	return appointment, nil
}

// Cancel is idempotent: cancelling a cancelled appointment returns it unchanged.
func (l *bookingLedger) Cancel(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	affected, err := l.appointmentRepo.CancelIfActive(ctx, id)
	if err != nil {
		l.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}

	appointment, err := l.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		l.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, entity.ErrAppointmentNotFound
	}

	if affected > 0 {
		l.log.Infof("Cancelled appointment %s", id)
	}
	return appointment, nil
}

func (l *bookingLedger) Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) (*entity.Appointment, error) {
	appointment, err := l.occupy(ctx, occupation{
		appointmentID: &id,
		at:            newTime,
		eligible: func(current *entity.Appointment) error {
			if current.IsCancelled() || !l.policy.CanReschedule(current.AppointmentTime) {
				return entity.ErrNotReschedulable
			}
			return nil
		},
	})
	if err != nil {
		l.warnUnexpected("Failed to reschedule appointment", err)
		return nil, err
	}

	l.log.Infof("Rescheduled appointment %s to %s (count %d)", id, newTime.Format(time.RFC3339), appointment.RescheduleCount)
	return appointment, nil
}

func (l *bookingLedger) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := l.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		l.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, entity.ErrAppointmentNotFound
	}
	return appointment, nil
}

func (l *bookingLedger) ListForClient(ctx context.Context, clientID uuid.UUID, asOf time.Time) ([]entity.Appointment, error) {
	appointments, err := l.appointmentRepo.FindActiveByClientFrom(ctx, clientID, asOf)
	if err != nil {
		l.log.Warnf("Failed to list client appointments: %+v", err)
		return nil, err
	}
	return appointments, nil
}

func (l *bookingLedger) ListFiltered(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	appointments, err := l.appointmentRepo.FindFiltered(ctx, filter)
	if err != nil {
		l.log.Warnf("Failed to list filtered appointments: %+v", err)
		return nil, err
	}
	return appointments, nil
}

func (l *bookingLedger) ListActiveInRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	return l.appointmentRepo.FindActiveByDoctorBetween(ctx, doctorID, from, to)
}

func (l *bookingLedger) warnUnexpected(msg string, err error) {
	switch {
	case errors.Is(err, entity.ErrSlotTaken),
		errors.Is(err, entity.ErrSlotInPast),
		errors.Is(err, entity.ErrNotReschedulable),
		errors.Is(err, entity.ErrAppointmentNotFound):
		l.log.Debugf("%s: %v", msg, err)
	default:
		l.log.Warnf("%s: %+v", msg, err)
	}
}
