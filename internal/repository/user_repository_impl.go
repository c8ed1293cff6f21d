package repository

import (
	"context"
	"errors"

	"go-medical-appointment/internal/domain/entity"
	domainRepo "go-medical-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Omit("Role").Create(user).Error
	switch {
	case isUniqueViolation(err, "email"):
		return entity.ErrEmailAlreadyExists
	case isForeignKeyViolation(err, "role"):
		return entity.ErrRoleNotFound
	}
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByRoles pages through users holding any of roleIDs. page starts at 1.
func (r *userRepository) FindByRoles(ctx context.Context, roleIDs []int, page, limit int) ([]entity.User, int64, error) {
	withRoles := func(db *gorm.DB) *gorm.DB {
		return db.Where("role_id IN ?", roleIDs)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Scopes(withRoles).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entity.User
	err := r.db.WithContext(ctx).Preload("Role").Scopes(withRoles).
		Order("full_name ASC, email ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Omit("Role").Save(user).Error
	switch {
	case isUniqueViolation(err, "email"):
		return entity.ErrEmailAlreadyExists
	case isForeignKeyViolation(err, "role"):
		return entity.ErrRoleNotFound
	}
	return err
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	if isForeignKeyViolation(result.Error, "appointments") {
		return 0, entity.ErrUserHasAppointments
	}
	return result.RowsAffected, result.Error
}
