package converter

import (
	"time"

	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Doctor and client names are filled only when the relations are loaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                appointment.ID,
		ClientID:          appointment.ClientID,
		DoctorID:          appointment.DoctorID,
		AppointmentTime:   appointment.AppointmentTime,
		Status:            string(appointment.Status),
		RescheduleCount:   appointment.RescheduleCount,
		LastRescheduledAt: appointment.LastRescheduledAt,
		CreatedAt:         appointment.CreatedAt,
		UpdatedAt:         appointment.UpdatedAt,
	}

	if appointment.Doctor != nil {
		response.DoctorName = appointment.Doctor.FullName()
		response.Specialization = appointment.Doctor.Specialization
	}
	if appointment.Client != nil {
		response.ClientName = appointment.Client.FullName
	}

	return response
}

func AppointmentsToListResponse(appointments []entity.Appointment) *dto.AppointmentListResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}

func AvailableDatesToResponse(doctorID uuid.UUID, start, end time.Time, dates []time.Time) *dto.AvailableDatesResponse {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.DateOnly)
	}
	return &dto.AvailableDatesResponse{
		DoctorID:  doctorID,
		StartDate: start.Format(time.DateOnly),
		EndDate:   end.Format(time.DateOnly),
		Dates:     out,
	}
}

func SlotsToResponse(doctorID uuid.UUID, date time.Time, slots []entity.SlotAvailability) *dto.AvailableSlotsResponse {
	out := make([]dto.SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = dto.SlotResponse{
			Time:      s.Time.Format(entity.ClockLayout),
			StartsAt:  s.Time,
			Available: s.Free,
		}
	}
	return &dto.AvailableSlotsResponse{
		DoctorID: doctorID,
		Date:     date.Format(time.DateOnly),
		Slots:    out,
	}
}

// AppointmentFilterFromQuery maps a validated staff query to the domain filter.
// Dates are calendar days in loc.
func AppointmentFilterFromQuery(q *dto.AppointmentFilterQuery, loc *time.Location) (entity.AppointmentFilter, error) {
	filter := entity.AppointmentFilter{
		SortField:     q.SortBy,
		SortDirection: q.SortDirection,
	}

	if q.StartDate != "" {
		start, err := time.ParseInLocation(time.DateOnly, q.StartDate, loc)
		if err != nil {
			return filter, entity.ErrInvalidRange
		}
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := time.ParseInLocation(time.DateOnly, q.EndDate, loc)
		if err != nil {
			return filter, entity.ErrInvalidRange
		}
		filter.EndDate = &end
	}
	if q.DoctorID != "" {
		doctorID, err := uuid.Parse(q.DoctorID)
		if err != nil {
			return filter, entity.ErrDoctorNotFound
		}
		filter.DoctorID = &doctorID
	}
	if q.Status != "" {
		status, ok := entity.ParseAppointmentStatus(q.Status)
		if !ok {
			return filter, entity.ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, filter.Validate()
}
