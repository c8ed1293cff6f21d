package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/usecase"
	"go-medical-appointment/pkg/response"
	"go-medical-appointment/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStaffUsecase struct {
	usecase.StaffUsecase
	err       error
	gotEmail  string
	gotPage   int
	gotLimit  int
	gotActive *bool
	created   *dto.CreateStaffRequest
}

func (f *fakeStaffUsecase) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffCreatedResponse, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.StaffCreatedResponse{
		User:              &dto.UserResponse{ID: uuid.New(), Email: req.Email, Role: req.Role, IsActive: true},
		GeneratedPassword: "generated-secret",
	}, nil
}

func (f *fakeStaffUsecase) GetStaffByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	f.gotEmail = email
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserResponse{ID: uuid.New(), Email: email}, nil
}

func (f *fakeStaffUsecase) ListStaff(ctx context.Context, page, limit int) (*dto.StaffListResponse, error) {
	f.gotPage, f.gotLimit = page, limit
	if f.err != nil {
		return nil, f.err
	}
	return &dto.StaffListResponse{
		Staff: []dto.UserResponse{{ID: uuid.New()}, {ID: uuid.New()}},
		Page:  2,
		Limit: 2,
		Total: 5,
	}, nil
}

func (f *fakeStaffUsecase) SetStaffStatus(ctx context.Context, id uuid.UUID, active bool) (*dto.UserResponse, error) {
	f.gotActive = &active
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserResponse{ID: id, IsActive: active}, nil
}

func (f *fakeStaffUsecase) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	return f.err
}

func withStaffID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestStaffHandler_CreateStaff(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		ucErr    error
		wantCode int
	}{
		{name: "generated password", body: `{"email":"desk@clinic.example","full_name":"Front Desk","role":"receptionist"}`, wantCode: http.StatusCreated},
		{name: "client role", body: `{"email":"desk@clinic.example","full_name":"Front Desk","role":"client"}`, wantCode: http.StatusBadRequest},
		{name: "short password", body: `{"email":"desk@clinic.example","full_name":"Front Desk","role":"admin","password":"short"}`, wantCode: http.StatusBadRequest},
		{name: "malformed body", body: `{`, wantCode: http.StatusBadRequest},
		{name: "email taken", body: `{"email":"desk@clinic.example","full_name":"Front Desk","role":"admin"}`, ucErr: entity.ErrEmailAlreadyExists, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeStaffUsecase{err: tt.ucErr}
			h := NewStaffHandler(uc, validator.NewValidator())

			rr := httptest.NewRecorder()
			h.CreateStaff(rr, httptest.NewRequest(http.MethodPost, "/admin/staff", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusCreated {
				assert.Contains(t, rr.Body.String(), `"generated_password":"generated-secret"`)
				assert.Empty(t, uc.created.Password)
			}
		})
	}
}

func TestStaffHandler_ListStaff(t *testing.T) {
	t.Run("paged listing carries meta", func(t *testing.T) {
		uc := &fakeStaffUsecase{}
		h := NewStaffHandler(uc, validator.NewValidator())

		rr := httptest.NewRecorder()
		h.ListStaff(rr, httptest.NewRequest(http.MethodGet, "/admin/staff?page=2&limit=2", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, uc.gotPage)
		assert.Equal(t, 2, uc.gotLimit)

		var body response.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.NotNil(t, body.Meta)
		assert.Equal(t, response.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, *body.Meta)
	})

	t.Run("email lookup", func(t *testing.T) {
		uc := &fakeStaffUsecase{}
		h := NewStaffHandler(uc, validator.NewValidator())

		rr := httptest.NewRecorder()
		h.ListStaff(rr, httptest.NewRequest(http.MethodGet, "/admin/staff?email=desk@clinic.example", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "desk@clinic.example", uc.gotEmail)
		assert.Zero(t, uc.gotPage)
	})

	t.Run("email lookup misses", func(t *testing.T) {
		h := NewStaffHandler(&fakeStaffUsecase{err: entity.ErrStaffNotFound}, validator.NewValidator())

		rr := httptest.NewRecorder()
		h.ListStaff(rr, httptest.NewRequest(http.MethodGet, "/admin/staff?email=nobody@clinic.example", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestStaffHandler_UpdateStaffStatus(t *testing.T) {
	staffID := uuid.New().String()

	tests := []struct {
		name     string
		id       string
		body     string
		ucErr    error
		wantCode int
	}{
		{name: "deactivate", id: staffID, body: `{"is_active":false}`, wantCode: http.StatusOK},
		{name: "missing flag", id: staffID, body: `{}`, wantCode: http.StatusBadRequest},
		{name: "bad id", id: "nope", body: `{"is_active":false}`, wantCode: http.StatusBadRequest},
		{name: "own account", id: staffID, body: `{"is_active":false}`, ucErr: entity.ErrCannotModifySelf, wantCode: http.StatusForbidden},
		{name: "unknown member", id: staffID, body: `{"is_active":true}`, ucErr: entity.ErrStaffNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeStaffUsecase{err: tt.ucErr}
			h := NewStaffHandler(uc, validator.NewValidator())

			req := withStaffID(httptest.NewRequest(http.MethodPatch, "/admin/staff/"+tt.id+"/status", strings.NewReader(tt.body)), tt.id)
			rr := httptest.NewRecorder()
			h.UpdateStaffStatus(rr, req)
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				assert.False(t, *uc.gotActive)
			}
		})
	}
}

func TestStaffHandler_DeleteStaff(t *testing.T) {
	staffID := uuid.New().String()

	tests := []struct {
		name     string
		ucErr    error
		wantCode int
	}{
		{name: "deleted", wantCode: http.StatusOK},
		{name: "has appointments", ucErr: entity.ErrUserHasAppointments, wantCode: http.StatusConflict},
		{name: "own account", ucErr: entity.ErrCannotModifySelf, wantCode: http.StatusForbidden},
		{name: "storage fault", ucErr: assert.AnError, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStaffHandler(&fakeStaffUsecase{err: tt.ucErr}, validator.NewValidator())

			req := withStaffID(httptest.NewRequest(http.MethodDelete, "/admin/staff/"+staffID, nil), staffID)
			rr := httptest.NewRecorder()
			h.DeleteStaff(rr, req)
			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}
