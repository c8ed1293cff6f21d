package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/usecase"
	"go-medical-appointment/pkg/response"
	"go-medical-appointment/pkg/validator"
)

type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
	}
}

func writeStaffError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrStaffNotFound):
		response.NotFound(w, "Staff member not found")
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		response.Error(w, http.StatusConflict, "Email already registered", nil)
	case errors.Is(err, entity.ErrUserHasAppointments):
		response.Error(w, http.StatusConflict, "Staff member still has appointments, deactivate instead", nil)
	case errors.Is(err, entity.ErrCannotModifySelf):
		response.Forbidden(w, err.Error())
	case errors.Is(err, entity.ErrInvalidStaffRole),
		errors.Is(err, entity.ErrRoleNotFound):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	created, err := h.staffUsecase.CreateStaff(r.Context(), &req)
	if err != nil {
		writeStaffError(w, err, "Failed to create staff member")
		return
	}

	response.Success(w, http.StatusCreated, "Staff member created successfully", created)
}

func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return
	}

	staff, err := h.staffUsecase.GetStaff(r.Context(), staffID)
	if err != nil {
		writeStaffError(w, err, "Failed to get staff member")
		return
	}

	response.Success(w, http.StatusOK, "Staff member retrieved successfully", staff)
}

// ListStaff pages with ?page and ?limit. ?email switches to a single lookup.
func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if email := query.Get("email"); email != "" {
		staff, err := h.staffUsecase.GetStaffByEmail(r.Context(), email)
		if err != nil {
			writeStaffError(w, err, "Failed to get staff member")
			return
		}
		response.Success(w, http.StatusOK, "Staff member retrieved successfully", staff)
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	list, err := h.staffUsecase.ListStaff(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get staff")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Staff retrieved successfully", list.Staff,
		response.NewMeta(list.Page, list.Limit, list.Total))
}

func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return
	}

	var req dto.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := h.staffUsecase.UpdateStaff(r.Context(), staffID, &req)
	if err != nil {
		writeStaffError(w, err, "Failed to update staff member")
		return
	}

	response.Success(w, http.StatusOK, "Staff member updated successfully", staff)
}

func (h *StaffHandler) UpdateStaffStatus(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return
	}

	var req dto.UpdateStaffStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := h.staffUsecase.SetStaffStatus(r.Context(), staffID, *req.IsActive)
	if err != nil {
		writeStaffError(w, err, "Failed to update staff status")
		return
	}

	response.Success(w, http.StatusOK, "Staff status updated successfully", staff)
}

func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return
	}

	if err := h.staffUsecase.DeleteStaff(r.Context(), staffID); err != nil {
		writeStaffError(w, err, "Failed to delete staff member")
		return
	}

	response.Success(w, http.StatusOK, "Staff member deleted successfully", nil)
}
