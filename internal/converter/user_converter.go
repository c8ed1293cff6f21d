package converter

import (
	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Role name falls back to the seeded id mapping when Role is not preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleNameByID(user.RoleID)
	}

	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Role:        role,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func UsersToStaffListResponse(users []entity.User, page, limit int, total int64) *dto.StaffListResponse {
	staff := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		staff = append(staff, *UserToResponse(&users[i]))
	}
	return &dto.StaffListResponse{Staff: staff, Page: page, Limit: limit, Total: total}
}
