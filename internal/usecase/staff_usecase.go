package usecase

import (
	"context"
	"errors"
	"strings"

	"go-medical-appointment/internal/converter"
	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/delivery/http/middleware"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/domain/repository"
	"go-medical-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultStaffPageLimit = 20
	maxStaffPageLimit     = 100
)

// StaffUsecase manages clinic employee accounts (admins and receptionists).
type StaffUsecase interface {
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffCreatedResponse, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetStaffByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	ListStaff(ctx context.Context, page, limit int) (*dto.StaffListResponse, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, req *dto.UpdateStaffRequest) (*dto.UserResponse, error)
	SetStaffStatus(ctx context.Context, id uuid.UUID, active bool) (*dto.UserResponse, error)
	DeleteStaff(ctx context.Context, id uuid.UUID) error
}

type staffUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	authUsecase  AuthUsecase
	auditService service.AuditService
}

func NewStaffUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	authUsecase AuthUsecase,
	auditService service.AuditService,
) StaffUsecase {
	return &staffUsecase{
		log:          log,
		userRepo:     userRepo,
		authUsecase:  authUsecase,
		auditService: auditService,
	}
}

func (u *staffUsecase) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffCreatedResponse, error) {
	created, err := u.authUsecase.RegisterStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Staff account %s (%s) created by %s", created.User.Email, created.User.Role, actorEmail(ctx))
	return created, nil
}

// findStaff treats clients as missing so the staff endpoints cannot touch them.
func (u *staffUsecase) findStaff(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsStaff() {
		return nil, entity.ErrStaffNotFound
	}
	return user, nil
}

func (u *staffUsecase) GetStaff(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.findStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

func (u *staffUsecase) GetStaffByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsStaff() {
		return nil, entity.ErrStaffNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *staffUsecase) ListStaff(ctx context.Context, page, limit int) (*dto.StaffListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultStaffPageLimit
	}
	if limit > maxStaffPageLimit {
		limit = maxStaffPageLimit
	}

	users, total, err := u.userRepo.FindByRoles(ctx, entity.StaffRoleIDs, page, limit)
	if err != nil {
		u.log.Warnf("Failed to list staff: %+v", err)
		return nil, err
	}

	return converter.UsersToStaffListResponse(users, page, limit, total), nil
}

// UpdateStaff applies non-empty fields. A role or password change revokes the
// member's tokens so the next login picks up the new credentials.
func (u *staffUsecase) UpdateStaff(ctx context.Context, id uuid.UUID, req *dto.UpdateStaffRequest) (*dto.UserResponse, error) {
	user, err := u.findStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	oldValue := converter.UserToResponse(user)

	revoke := false
	if req.Role != "" {
		roleID, ok := entity.StaffRoleIDByName(req.Role)
		if !ok {
			return nil, entity.ErrInvalidStaffRole
		}
		if roleID != user.RoleID {
			if isSelf(ctx, id) {
				return nil, entity.ErrCannotModifySelf
			}
			user.RoleID = roleID
			user.Role = entity.Role{ID: roleID, RoleName: entity.RoleNameByID(roleID)}
			revoke = true
		}
	}
	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.NewPassword != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
		revoke = true
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if !errors.Is(err, entity.ErrEmailAlreadyExists) {
			u.log.Warnf("Failed to update staff: %+v", err)
		}
		return nil, err
	}

	if revoke {
		if err := u.authUsecase.RevokeAllUserTokens(ctx, id); err != nil {
			return nil, err
		}
	}

	newValue := converter.UserToResponse(user)
	u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionStaffUpdate, "user", id.String(), oldValue, newValue)
	return newValue, nil
}

// SetStaffStatus blocks or restores login. Deactivation also ends every session.
func (u *staffUsecase) SetStaffStatus(ctx context.Context, id uuid.UUID, active bool) (*dto.UserResponse, error) {
	user, err := u.findStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if !active && isSelf(ctx, id) {
		return nil, entity.ErrCannotModifySelf
	}

	previous := user.IsActive
	user.IsActive = active
	if err := u.userRepo.Update(ctx, user); err != nil {
		u.log.Warnf("Failed to update staff status: %+v", err)
		return nil, err
	}

	if !active {
		if err := u.authUsecase.RevokeAllUserTokens(ctx, id); err != nil {
			return nil, err
		}
		u.log.Infof("Staff account %s deactivated by %s", user.Email, actorEmail(ctx))
	}

	u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionStaffUpdate, "user", id.String(),
		map[string]bool{"is_active": previous}, map[string]bool{"is_active": active})
	return converter.UserToResponse(user), nil
}

func (u *staffUsecase) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	user, err := u.findStaff(ctx, id)
	if err != nil {
		return err
	}
	if isSelf(ctx, id) {
		return entity.ErrCannotModifySelf
	}
	oldValue := converter.UserToResponse(user)

	affectedRows, err := u.userRepo.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, entity.ErrUserHasAppointments) {
			u.log.Warnf("Failed delete staff: %+v", err)
		}
		return err
	}
	if affectedRows == 0 {
		return entity.ErrStaffNotFound
	}

	if err := u.authUsecase.RevokeAllUserTokens(ctx, id); err != nil {
		return err
	}

	u.log.Infof("Staff account %s deleted by %s", user.Email, actorEmail(ctx))
	u.auditService.LogDelete(ctx, actorFromContext(ctx), entity.AuditActionStaffDelete, "user", id.String(), oldValue)
	return nil
}

func isSelf(ctx context.Context, id uuid.UUID) bool {
	actor := actorFromContext(ctx)
	return actor != nil && *actor == id
}

func actorEmail(ctx context.Context) string {
	email, ok := middleware.GetUserEmailFromContext(ctx)
	if !ok || email == "" {
		return "system"
	}
	return email
}
