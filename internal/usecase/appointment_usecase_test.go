package usecase

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-medical-appointment/config"
	"go-medical-appointment/internal/delivery/http/middleware"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/infrastructure/metrics"
	"go-medical-appointment/internal/repository/memory"
	"go-medical-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2 June 2025, 08:00 UTC
var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.UTC)
}

type facadeFixture struct {
	usecase      AppointmentUsecase
	appointments *memory.AppointmentRepository
	doctors      *memory.DoctorRepository
	audit        *memory.AuditLogRepository
	registry     *prometheus.Registry
	doctor       entity.Doctor
}

// newFacade wires the real services on in-memory storage with a 09:00-12:00 hourly grid.
func newFacade(t *testing.T) *facadeFixture {
	t.Helper()
	log := newTestLogger()
	cfg := config.SchedulingConfig{
		InitialBookingDays: 7,
		RescheduleMinDays:  2,
		RescheduleMaxDays:  30,
		OpeningTime:        "09:00",
		ClosingTime:        "12:00",
		SlotStep:           time.Hour,
	}

	policy := service.NewTimeWindowPolicy(service.ClockFunc(func() time.Time { return testNow }), time.UTC, cfg)
	grid, err := service.NewSlotGrid(cfg, time.UTC)
	require.NoError(t, err)

	doctor := entity.Doctor{ID: uuid.New(), FirstName: "Maya", LastName: "Okafor", Specialization: "Cardiologist", IsActive: true}
	doctors := memory.NewDoctorRepository(doctor)
	appointments := memory.NewAppointmentRepository()
	auditRepo := memory.NewAuditLogRepository()
	reg := prometheus.NewRegistry()

	ledger := service.NewBookingLedger(log, policy, appointments)
	availability := service.NewAvailabilityService(log, grid, policy, ledger)

	return &facadeFixture{
		usecase: NewAppointmentUsecase(log, policy, grid, availability, ledger, doctors,
			service.NewAuditService(log, auditRepo), metrics.NewBookingMetrics(reg)),
		appointments: appointments,
		doctors:      doctors,
		audit:        auditRepo,
		registry:     reg,
		doctor:       doctor,
	}
}

func (f *facadeFixture) scrape(t *testing.T) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler(f.registry).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rr.Body.String()
}

func asUser(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, userID)
}

func TestAppointmentUsecase_Book(t *testing.T) {
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	t.Run("books a free slot and records audit and metrics", func(t *testing.T) {
		f := newFacade(t)
		clientID := uuid.New()

		resp, err := f.usecase.Book(asUser(clientID), clientID, f.doctor.ID, at(day, 10, 0))
		require.NoError(t, err)
		assert.Equal(t, "SCHEDULED", resp.Status)
		assert.Equal(t, "Maya Okafor", resp.DoctorName)
		assert.Equal(t, clientID, resp.ClientID)

		assert.Equal(t, []string{entity.AuditActionAppointmentBook}, f.audit.Actions())
		assert.Contains(t, f.scrape(t), `booking_appointments_total{operation="book",outcome="ok"} 1`)
	})

	t.Run("second booking of the slot is taken", func(t *testing.T) {
		f := newFacade(t)
		_, err := f.usecase.Book(context.Background(), uuid.New(), f.doctor.ID, at(day, 10, 0))
		require.NoError(t, err)

		_, err = f.usecase.Book(context.Background(), uuid.New(), f.doctor.ID, at(day, 10, 0))
		assert.ErrorIs(t, err, entity.ErrSlotTaken)
		assert.Contains(t, f.scrape(t), `booking_appointments_total{operation="book",outcome="slot_taken"} 1`)
	})

	tests := []struct {
		name    string
		prepare func(f *facadeFixture) (uuid.UUID, time.Time)
		wantErr error
	}{
		{
			name:    "unknown doctor",
			prepare: func(f *facadeFixture) (uuid.UUID, time.Time) { return uuid.New(), at(day, 10, 0) },
			wantErr: entity.ErrDoctorNotFound,
		},
		{
			name: "inactive doctor",
			prepare: func(f *facadeFixture) (uuid.UUID, time.Time) {
				_, _ = f.doctors.SetActive(context.Background(), f.doctor.ID, false)
				return f.doctor.ID, at(day, 10, 0)
			},
			wantErr: entity.ErrDoctorInactive,
		},
		{
			name:    "between grid points",
			prepare: func(f *facadeFixture) (uuid.UUID, time.Time) { return f.doctor.ID, at(day, 10, 30) },
			wantErr: entity.ErrSlotNotOnGrid,
		},
		{
			name:    "after closing",
			prepare: func(f *facadeFixture) (uuid.UUID, time.Time) { return f.doctor.ID, at(day, 12, 0) },
			wantErr: entity.ErrSlotNotOnGrid,
		},
		{
			name: "in the past",
			prepare: func(f *facadeFixture) (uuid.UUID, time.Time) {
				return f.doctor.ID, at(testNow.AddDate(0, 0, -1), 10, 0)
			},
			wantErr: entity.ErrSlotInPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFacade(t)
			doctorID, slot := tt.prepare(f)

			_, err := f.usecase.Book(context.Background(), uuid.New(), doctorID, slot)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.audit.Actions())
		})
	}
}

func TestAppointmentUsecase_Availability(t *testing.T) {
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	t.Run("booked slot shows as unavailable", func(t *testing.T) {
		f := newFacade(t)
		_, err := f.usecase.Book(context.Background(), uuid.New(), f.doctor.ID, at(day, 10, 0))
		require.NoError(t, err)

		resp, err := f.usecase.ListAvailableSlots(context.Background(), f.doctor.ID, day)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-05", resp.Date)
		require.Len(t, resp.Slots, 3)

		got := map[string]bool{}
		for _, s := range resp.Slots {
			got[s.Time] = s.Available
		}
		assert.Equal(t, map[string]bool{"09:00": true, "10:00": false, "11:00": true}, got)
	})

	t.Run("booking window lists every day with a free slot", func(t *testing.T) {
		f := newFacade(t)

		resp, err := f.usecase.StartBooking(context.Background(), f.doctor.ID)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-02", resp.StartDate)
		assert.Equal(t, "2025-06-09", resp.EndDate)
		assert.Len(t, resp.Dates, 8)
	})

	t.Run("fully booked day is left out", func(t *testing.T) {
		f := newFacade(t)
		for _, h := range []int{9, 10, 11} {
			_, err := f.usecase.Book(context.Background(), uuid.New(), f.doctor.ID, at(day, h, 0))
			require.NoError(t, err)
		}

		resp, err := f.usecase.ListAvailableDates(context.Background(), f.doctor.ID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-06-04", "2025-06-06"}, resp.Dates)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newFacade(t)
		_, err := f.usecase.ListAvailableDates(context.Background(), f.doctor.ID, day, day.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, entity.ErrInvalidRange)
	})
}

func TestAppointmentUsecase_CancelForClient(t *testing.T) {
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	f := newFacade(t)
	clientID := uuid.New()
	first, err := f.usecase.Book(ctx, clientID, f.doctor.ID, at(day, 9, 0))
	require.NoError(t, err)
	second, err := f.usecase.Book(ctx, clientID, f.doctor.ID, at(day, 10, 0))
	require.NoError(t, err)

	_, err = f.usecase.CancelForClient(ctx, uuid.New(), first.ID)
	assert.ErrorIs(t, err, entity.ErrNotOwner)

	remaining, err := f.usecase.CancelForClient(ctx, clientID, first.ID)
	require.NoError(t, err)
	require.Equal(t, 1, remaining.Total)
	assert.Equal(t, second.ID, remaining.Appointments[0].ID)

	// repeat cancel succeeds without a second audit entry
	_, err = f.usecase.CancelForClient(ctx, clientID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		entity.AuditActionAppointmentBook,
		entity.AuditActionAppointmentBook,
		entity.AuditActionAppointmentCancel,
	}, f.audit.Actions())

	_, err = f.usecase.Cancel(ctx, uuid.New())
	assert.ErrorIs(t, err, entity.ErrAppointmentNotFound)
}

func TestAppointmentUsecase_Reschedule(t *testing.T) {
	ctx := context.Background()
	booked := at(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 10, 0)
	target := at(time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), 11, 0)

	t.Run("moves the appointment and keeps its id", func(t *testing.T) {
		f := newFacade(t)
		clientID := uuid.New()
		appt, err := f.usecase.Book(ctx, clientID, f.doctor.ID, booked)
		require.NoError(t, err)

		moved, err := f.usecase.Reschedule(ctx, clientID, appt.ID, target)
		require.NoError(t, err)
		assert.Equal(t, appt.ID, moved.ID)
		assert.True(t, target.Equal(moved.AppointmentTime))
		assert.Equal(t, 1, moved.RescheduleCount)
		assert.NotNil(t, moved.LastRescheduledAt)

		slots, err := f.usecase.ListAvailableSlots(ctx, f.doctor.ID, booked)
		require.NoError(t, err)
		for _, s := range slots.Slots {
			assert.True(t, s.Available, s.Time)
		}
		assert.Contains(t, f.audit.Actions(), entity.AuditActionAppointmentMove)
	})

	tests := []struct {
		name    string
		booked  time.Time
		target  time.Time
		other   bool
		wantErr error
	}{
		{name: "not the owner", booked: booked, target: target, other: true, wantErr: entity.ErrNotOwner},
		{name: "too close to the appointment", booked: at(testNow.AddDate(0, 0, 1), 10, 0), target: target, wantErr: entity.ErrNotReschedulable},
		{name: "target before the window", booked: booked, target: at(testNow.AddDate(0, 0, 1), 11, 0), wantErr: entity.ErrOutsideRescheduleWindow},
		{name: "target after the window", booked: booked, target: at(testNow.AddDate(0, 0, 31), 11, 0), wantErr: entity.ErrOutsideRescheduleWindow},
		{name: "target off the grid", booked: booked, target: target.Add(30 * time.Minute), wantErr: entity.ErrSlotNotOnGrid},
		{name: "target is its own slot", booked: booked, target: booked, wantErr: entity.ErrSlotTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFacade(t)
			clientID := uuid.New()
			appt, err := f.usecase.Book(ctx, clientID, f.doctor.ID, tt.booked)
			require.NoError(t, err)

			caller := clientID
			if tt.other {
				caller = uuid.New()
			}
			_, err = f.usecase.Reschedule(ctx, caller, appt.ID, tt.target)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("cancelled appointment", func(t *testing.T) {
		f := newFacade(t)
		clientID := uuid.New()
		appt, err := f.usecase.Book(ctx, clientID, f.doctor.ID, booked)
		require.NoError(t, err)
		_, err = f.usecase.CancelForClient(ctx, clientID, appt.ID)
		require.NoError(t, err)

		_, err = f.usecase.Reschedule(ctx, clientID, appt.ID, target)
		assert.ErrorIs(t, err, entity.ErrNotReschedulable)
		assert.Contains(t, f.scrape(t), `booking_appointments_total{operation="reschedule",outcome="not_reschedulable"} 1`)
	})
}

func TestAppointmentUsecase_StartReschedule(t *testing.T) {
	ctx := context.Background()
	f := newFacade(t)
	clientID := uuid.New()
	appt, err := f.usecase.Book(ctx, clientID, f.doctor.ID, at(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 10, 0))
	require.NoError(t, err)

	opts, err := f.usecase.StartReschedule(ctx, clientID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, opts.Appointment.ID)
	assert.Equal(t, "2025-06-04", opts.Available.StartDate)
	assert.Equal(t, "2025-07-02", opts.Available.EndDate)
	assert.Len(t, opts.Available.Dates, 29)
}
