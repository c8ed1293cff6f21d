package entity

import "errors"

// Booking engine error kinds. Callers translate these into their own wording.
var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrDoctorInactive          = errors.New("doctor is not accepting appointments")
	ErrNotOwner                = errors.New("appointment does not belong to you")
	ErrSlotTaken               = errors.New("slot is already taken")
	ErrSlotInPast              = errors.New("cannot book a slot in the past")
	ErrSlotNotOnGrid           = errors.New("time is not a bookable slot")
	ErrNotReschedulable        = errors.New("appointment can no longer be rescheduled")
	ErrOutsideRescheduleWindow = errors.New("new time is outside the reschedule window")
	ErrInvalidRange            = errors.New("invalid date range")
	ErrInvalidSort             = errors.New("invalid sort field or direction")
	ErrInvalidStatus           = errors.New("invalid appointment status")
)

// Directory errors
var (
	ErrInvalidTimeFormat       = errors.New("invalid time format, use HH:MM")
	ErrInvalidWorkingHours     = errors.New("working hours start must be before end")
	ErrOverlappingWorkingHours = errors.New("working hours overlap on the same day")
	ErrInvalidWeekday          = errors.New("invalid day of week")
	ErrDoctorHasAppointments   = errors.New("doctor still has appointments")
)

// Account errors
var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrRoleNotFound        = errors.New("role not found")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrInvalidStaffRole    = errors.New("staff role must be admin or receptionist")
	ErrCannotModifySelf    = errors.New("cannot demote, deactivate or delete your own account")
	ErrUserHasAppointments = errors.New("user still has appointments")
)
