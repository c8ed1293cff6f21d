package converter

import (
	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/domain/entity"
)

func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	hours := make([]dto.WorkingHoursResponse, len(doctor.WorkingHours))
	for i, wh := range doctor.WorkingHours {
		hours[i] = dto.WorkingHoursResponse{
			DayOfWeek: wh.DayOfWeek.String(),
			StartTime: wh.StartTime,
			EndTime:   wh.EndTime,
		}
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		FirstName:      doctor.FirstName,
		LastName:       doctor.LastName,
		FullName:       doctor.FullName(),
		Specialization: doctor.Specialization,
		PhoneNumber:    doctor.PhoneNumber,
		Email:          doctor.Email,
		IsActive:       doctor.IsActive,
		WorkingHours:   hours,
		CreatedAt:      doctor.CreatedAt,
		UpdatedAt:      doctor.UpdatedAt,
	}
}

func DoctorsToListResponse(doctors []entity.Doctor) *dto.DoctorListResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}
}

// WorkingHoursFromRequest maps request entries; an unknown weekday fails with entity.ErrInvalidWeekday.
func WorkingHoursFromRequest(req []dto.WorkingHoursRequest) ([]entity.WorkingHours, error) {
	hours := make([]entity.WorkingHours, 0, len(req))
	for _, r := range req {
		day, ok := entity.ParseWeekday(r.DayOfWeek)
		if !ok {
			return nil, entity.ErrInvalidWeekday
		}
		hours = append(hours, entity.WorkingHours{
			DayOfWeek: day,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}
	return hours, nil
}
