package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-medical-appointment/internal/converter"
	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/delivery/http/middleware"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/usecase"
	"go-medical-appointment/pkg/response"
	"go-medical-appointment/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const dateTimeLayout = time.DateOnly + " " + entity.ClockLayout

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	loc                *time.Location
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, loc *time.Location) *AppointmentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		loc:                loc,
	}
}

// writeAppointmentError maps booking error kinds to status codes.
func writeAppointmentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, entity.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, entity.ErrNotOwner):
		response.Forbidden(w, "Appointment does not belong to you")
	case errors.Is(err, entity.ErrSlotTaken):
		response.Error(w, http.StatusConflict, "The selected time slot is no longer available", nil)
	case errors.Is(err, entity.ErrDoctorInactive),
		errors.Is(err, entity.ErrSlotInPast),
		errors.Is(err, entity.ErrSlotNotOnGrid),
		errors.Is(err, entity.ErrNotReschedulable),
		errors.Is(err, entity.ErrOutsideRescheduleWindow):
		response.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, entity.ErrInvalidRange),
		errors.Is(err, entity.ErrInvalidSort),
		errors.Is(err, entity.ErrInvalidStatus):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *AppointmentHandler) parseDate(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(time.DateOnly, value, h.loc)
	return t, err == nil
}

func (h *AppointmentHandler) parseDateTime(date, clock string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, h.loc)
	return t, err == nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}

// GetAvailableDates lists bookable days. Without start and end the booking window is used.
func (h *AppointmentHandler) GetAvailableDates(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")

	var (
		dates *dto.AvailableDatesResponse
		err   error
	)
	if startParam == "" && endParam == "" {
		dates, err = h.appointmentUsecase.StartBooking(r.Context(), doctorID)
	} else {
		start, okStart := h.parseDate(startParam)
		end, okEnd := h.parseDate(endParam)
		if !okStart || !okEnd {
			response.Error(w, http.StatusBadRequest, "start and end must both be dates in YYYY-MM-DD format", nil)
			return
		}
		dates, err = h.appointmentUsecase.ListAvailableDates(r.Context(), doctorID, start, end)
	}
	if err != nil {
		writeAppointmentError(w, err, "Failed to get available dates")
		return
	}

	response.Success(w, http.StatusOK, "Available dates retrieved successfully", dates)
}

func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date, ok := h.parseDate(r.URL.Query().Get("date"))
	if !ok {
		response.Error(w, http.StatusBadRequest, "date is required in YYYY-MM-DD format", nil)
		return
	}

	slots, err := h.appointmentUsecase.ListAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	at, ok := h.parseDateTime(req.Date, req.Time)
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid date or time", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), clientID, req.DoctorID, at)
	if err != nil {
		writeAppointmentError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointments, err := h.appointmentUsecase.ListClientAppointments(r.Context(), clientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// CancelMyAppointment responds with the client's remaining upcoming appointments.
func (h *AppointmentHandler) CancelMyAppointment(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	remaining, err := h.appointmentUsecase.CancelForClient(r.Context(), clientID, appointmentID)
	if err != nil {
		writeAppointmentError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", remaining)
}

func (h *AppointmentHandler) GetRescheduleDates(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	options, err := h.appointmentUsecase.StartReschedule(r.Context(), clientID, appointmentID)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get reschedule dates")
		return
	}

	response.Success(w, http.StatusOK, "Reschedule dates retrieved successfully", options)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	newTime, ok := h.parseDateTime(req.Date, req.Time)
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid date or time", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), clientID, appointmentID, newTime)
	if err != nil {
		writeAppointmentError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", appointment)
}

// GetAllAppointments is the staff listing with optional filters and sorting.
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.AppointmentFilterQuery{
		StartDate:     query.Get("start_date"),
		EndDate:       query.Get("end_date"),
		DoctorID:      query.Get("doctor_id"),
		Status:        query.Get("status"),
		SortBy:        query.Get("sort_by"),
		SortDirection: query.Get("sort_direction"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	filter, err := converter.AppointmentFilterFromQuery(&req, h.loc)
	if err != nil {
		writeAppointmentError(w, err, "Invalid filter")
		return
	}

	appointments, err := h.appointmentUsecase.ListFiltered(r.Context(), filter)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// CancelAppointment is the staff cancel: no ownership check.
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), appointmentID)
	if err != nil {
		writeAppointmentError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}
