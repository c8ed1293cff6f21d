package service

import (
	"context"
	"time"

	"go-medical-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ActiveAppointmentLister is the read side of the ledger the calculator needs.
type ActiveAppointmentLister interface {
	ListActiveInRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
}

type AvailabilityService interface {
	AvailableSlots(ctx context.Context, doctor *entity.Doctor, date time.Time) ([]entity.SlotAvailability, error)
	AvailableDates(ctx context.Context, doctor *entity.Doctor, start, end time.Time) ([]time.Time, error)
}

type availabilityService struct {
	log    *logrus.Logger
	grid   *SlotGrid
	policy *TimeWindowPolicy
	ledger ActiveAppointmentLister
}

func NewAvailabilityService(log *logrus.Logger, grid *SlotGrid, policy *TimeWindowPolicy, ledger ActiveAppointmentLister) AvailabilityService {
	return &availabilityService{
		log:    log,
		grid:   grid,
		policy: policy,
		ledger: ledger,
	}
}

func (s *availabilityService) AvailableSlots(ctx context.Context, doctor *entity.Doctor, date time.Time) ([]entity.SlotAvailability, error) {
	day := s.policy.DateOf(date)

	appointments, err := s.ledger.ListActiveInRange(ctx, doctor.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		s.log.Warnf("Failed to list appointments for availability: %+v", err)
		return nil, err
	}

	return ComputeAvailability(s.grid.ForDoctor(doctor, day), appointments, s.notBefore(day)), nil
}

// notBefore is now for today and the zero time for any other day, so only
// today's elapsed points are hidden.
func (s *availabilityService) notBefore(day time.Time) time.Time {
	if day.Equal(s.policy.Today()) {
		return s.policy.Now()
	}
	return time.Time{}
}

// AvailableDates walks [start, end] day by day and keeps days with at least one
// free slot. Days before today are never open. Appointments are fetched once
// for the whole range.
func (s *availabilityService) AvailableDates(ctx context.Context, doctor *entity.Doctor, start, end time.Time) ([]time.Time, error) {
	first, last := s.policy.DateOf(start), s.policy.DateOf(end)
	if today := s.policy.Today(); first.Before(today) {
		first = today
	}
	if first.After(last) {
		return []time.Time{}, nil
	}

	appointments, err := s.ledger.ListActiveInRange(ctx, doctor.ID, first, last.AddDate(0, 0, 1))
	if err != nil {
		s.log.Warnf("Failed to list appointments for availability: %+v", err)
		return nil, err
	}

	byDay := make(map[int64][]entity.Appointment)
	for _, a := range appointments {
		day := s.policy.DateOf(a.AppointmentTime)
		byDay[day.Unix()] = append(byDay[day.Unix()], a)
	}

	dates := []time.Time{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		for _, slot := range ComputeAvailability(s.grid.ForDoctor(doctor, day), byDay[day.Unix()], s.notBefore(day)) {
			if slot.Free {
				dates = append(dates, day)
				break
			}
		}
	}

	s.log.Debugf("Doctor %s has %d open dates between %s and %s", doctor.ID, len(dates), first.Format(time.DateOnly), last.Format(time.DateOnly))
	return dates, nil
}

// ComputeAvailability marks each grid point free unless a SCHEDULED appointment
// sits exactly on it. Points strictly before notBefore are dropped, not marked
// busy; a zero notBefore keeps the whole grid.
func ComputeAvailability(grid []time.Time, appointments []entity.Appointment, notBefore time.Time) []entity.SlotAvailability {
	booked := make(map[int64]struct{}, len(appointments))
	for _, a := range appointments {
		if a.IsScheduled() {
			booked[a.AppointmentTime.UnixNano()] = struct{}{}
		}
	}

	slots := make([]entity.SlotAvailability, 0, len(grid))
	for _, t := range grid {
		if t.Before(notBefore) {
			continue
		}
		_, taken := booked[t.UnixNano()]
		slots = append(slots, entity.SlotAvailability{Time: t, Free: !taken})
	}
	return slots
}
