package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/delivery/http/middleware"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/usecase"
	"go-medical-appointment/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAppointmentUsecase records the arguments of the last call and returns err.
type fakeAppointmentUsecase struct {
	usecase.AppointmentUsecase
	err        error
	gotClient  uuid.UUID
	gotDoctor  uuid.UUID
	gotTime    time.Time
	gotStart   time.Time
	gotEnd     time.Time
	gotFilter  entity.AppointmentFilter
	startedNew bool
}

func (f *fakeAppointmentUsecase) StartBooking(ctx context.Context, doctorID uuid.UUID) (*dto.AvailableDatesResponse, error) {
	f.startedNew = true
	f.gotDoctor = doctorID
	return &dto.AvailableDatesResponse{DoctorID: doctorID}, f.err
}

func (f *fakeAppointmentUsecase) ListAvailableDates(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*dto.AvailableDatesResponse, error) {
	f.gotDoctor, f.gotStart, f.gotEnd = doctorID, start, end
	return &dto.AvailableDatesResponse{DoctorID: doctorID}, f.err
}

func (f *fakeAppointmentUsecase) Book(ctx context.Context, clientID, doctorID uuid.UUID, at time.Time) (*dto.AppointmentResponse, error) {
	f.gotClient, f.gotDoctor, f.gotTime = clientID, doctorID, at
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentResponse{ID: uuid.New(), ClientID: clientID, DoctorID: doctorID, AppointmentTime: at}, nil
}

func (f *fakeAppointmentUsecase) Reschedule(ctx context.Context, clientID, id uuid.UUID, newTime time.Time) (*dto.AppointmentResponse, error) {
	f.gotClient, f.gotTime = clientID, newTime
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentResponse{ID: id, AppointmentTime: newTime}, nil
}

func (f *fakeAppointmentUsecase) ListFiltered(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	f.gotFilter = filter
	return &dto.AppointmentListResponse{}, f.err
}

func newTestAppointmentHandler(uc usecase.AppointmentUsecase) (*AppointmentHandler, *time.Location) {
	loc := time.FixedZone("WIB", 7*60*60)
	return NewAppointmentHandler(uc, validator.NewValidator(), loc), loc
}

func withClient(req *http.Request, clientID uuid.UUID) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, clientID))
}

func TestAppointmentHandler_CreateAppointment(t *testing.T) {
	doctorID := uuid.New()
	clientID := uuid.New()

	tests := []struct {
		name     string
		body     string
		ucErr    error
		wantCode int
	}{
		{name: "booked", body: `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-05","time":"10:00"}`, wantCode: http.StatusCreated},
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest},
		{name: "bad time format", body: `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-05","time":"10am"}`, wantCode: http.StatusBadRequest},
		{name: "slot taken", body: `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-05","time":"10:00"}`, ucErr: entity.ErrSlotTaken, wantCode: http.StatusConflict},
		{name: "not on grid", body: `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-05","time":"10:15"}`, ucErr: entity.ErrSlotNotOnGrid, wantCode: http.StatusUnprocessableEntity},
		{name: "unknown doctor", body: `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-05","time":"10:00"}`, ucErr: entity.ErrDoctorNotFound, wantCode: http.StatusNotFound},
		{name: "storage fault", body: `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-05","time":"10:00"}`, ucErr: assert.AnError, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeAppointmentUsecase{err: tt.ucErr}
			h, _ := newTestAppointmentHandler(uc)

			req := withClient(httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(tt.body)), clientID)
			rr := httptest.NewRecorder()
			h.CreateAppointment(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestAppointmentHandler_CreateAppointment_ParsesInClinicZone(t *testing.T) {
	uc := &fakeAppointmentUsecase{}
	h, loc := newTestAppointmentHandler(uc)
	doctorID := uuid.New()
	clientID := uuid.New()

	body := `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-05","time":"09:00"}`
	req := withClient(httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)), clientID)
	rr := httptest.NewRecorder()
	h.CreateAppointment(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, clientID, uc.gotClient)
	assert.Equal(t, doctorID, uc.gotDoctor)
	assert.True(t, time.Date(2025, 6, 5, 9, 0, 0, 0, loc).Equal(uc.gotTime))
	assert.True(t, time.Date(2025, 6, 5, 2, 0, 0, 0, time.UTC).Equal(uc.gotTime))

	var body2 struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body2))
	assert.True(t, body2.Success)
}

func TestAppointmentHandler_CreateAppointment_RequiresUser(t *testing.T) {
	h, _ := newTestAppointmentHandler(&fakeAppointmentUsecase{})

	rr := httptest.NewRecorder()
	h.CreateAppointment(rr, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAppointmentHandler_GetAvailableDates(t *testing.T) {
	doctorID := uuid.New()

	serve := func(uc *fakeAppointmentUsecase, target string) *httptest.ResponseRecorder {
		h, _ := newTestAppointmentHandler(uc)
		r := mux.NewRouter()
		r.HandleFunc("/doctors/{id}/available-dates", h.GetAvailableDates)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		return rr
	}

	t.Run("defaults to the booking window", func(t *testing.T) {
		uc := &fakeAppointmentUsecase{}
		rr := serve(uc, "/doctors/"+doctorID.String()+"/available-dates")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, uc.startedNew)
		assert.Equal(t, doctorID, uc.gotDoctor)
	})

	t.Run("explicit range", func(t *testing.T) {
		uc := &fakeAppointmentUsecase{}
		rr := serve(uc, "/doctors/"+doctorID.String()+"/available-dates?start=2025-06-01&end=2025-06-07")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, uc.startedNew)
		assert.Equal(t, 1, uc.gotStart.Day())
		assert.Equal(t, 7, uc.gotEnd.Day())
	})

	t.Run("half a range", func(t *testing.T) {
		rr := serve(&fakeAppointmentUsecase{}, "/doctors/"+doctorID.String()+"/available-dates?start=2025-06-01")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("inverted range", func(t *testing.T) {
		rr := serve(&fakeAppointmentUsecase{err: entity.ErrInvalidRange}, "/doctors/"+doctorID.String()+"/available-dates?start=2025-06-07&end=2025-06-01")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid doctor id", func(t *testing.T) {
		rr := serve(&fakeAppointmentUsecase{}, "/doctors/nope/available-dates")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAppointmentHandler_RescheduleAppointment(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		ucErr    error
		wantCode int
	}{
		{name: "moved", wantCode: http.StatusOK},
		{name: "not owner", ucErr: entity.ErrNotOwner, wantCode: http.StatusForbidden},
		{name: "too late", ucErr: entity.ErrNotReschedulable, wantCode: http.StatusUnprocessableEntity},
		{name: "outside window", ucErr: entity.ErrOutsideRescheduleWindow, wantCode: http.StatusUnprocessableEntity},
		{name: "missing", ucErr: entity.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestAppointmentHandler(&fakeAppointmentUsecase{err: tt.ucErr})
			r := mux.NewRouter()
			r.HandleFunc("/appointments/{id}/reschedule", h.RescheduleAppointment)

			req := withClient(httptest.NewRequest(http.MethodPut, "/appointments/"+id.String()+"/reschedule",
				strings.NewReader(`{"date":"2025-06-12","time":"11:00"}`)), uuid.New())
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestAppointmentHandler_GetAllAppointments(t *testing.T) {
	doctorID := uuid.New()

	t.Run("maps query to filter", func(t *testing.T) {
		uc := &fakeAppointmentUsecase{}
		h, loc := newTestAppointmentHandler(uc)

		target := "/admin/appointments?start_date=2025-06-01&end_date=2025-06-30&doctor_id=" + doctorID.String() +
			"&status=SCHEDULED&sort_by=created_at&sort_direction=desc"
		rr := httptest.NewRecorder()
		h.GetAllAppointments(rr, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		f := uc.gotFilter
		require.NotNil(t, f.StartDate)
		require.NotNil(t, f.EndDate)
		require.NotNil(t, f.DoctorID)
		require.NotNil(t, f.Status)
		assert.True(t, time.Date(2025, 6, 1, 0, 0, 0, 0, loc).Equal(*f.StartDate))
		assert.Equal(t, doctorID, *f.DoctorID)
		assert.Equal(t, entity.AppointmentStatusScheduled, *f.Status)
		assert.Equal(t, "created_at", f.SortField)
		assert.Equal(t, "desc", f.SortDirection)
	})

	tests := []struct {
		name  string
		query string
	}{
		{name: "unknown status", query: "?status=DONE"},
		{name: "bad date", query: "?start_date=06/01/2025"},
		{name: "inverted range", query: "?start_date=2025-06-30&end_date=2025-06-01"},
		{name: "unknown sort field", query: "?sort_by=client_id"},
		{name: "bad doctor id", query: "?doctor_id=42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestAppointmentHandler(&fakeAppointmentUsecase{})
			rr := httptest.NewRecorder()
			h.GetAllAppointments(rr, httptest.NewRequest(http.MethodGet, "/admin/appointments"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
