package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go-medical-appointment/internal/domain/entity"
	domainRepo "go-medical-appointment/internal/domain/repository"

	"github.com/google/uuid"
)

// UserRepository keeps emails unique case-insensitively, like the users.email index.
type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

var _ domainRepo.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*entity.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entity.RoleNameByID(user.RoleID) == "" {
		return entity.ErrRoleNotFound
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return entity.ErrEmailAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	stored.Role = entity.Role{ID: user.RoleID, RoleName: entity.RoleNameByID(user.RoleID)}
	r.users[stored.ID] = &stored
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	found := *u
	return &found, nil
}

func (r *UserRepository) FindByRoles(ctx context.Context, roleIDs []int, page, limit int) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []entity.User{}
	for _, u := range r.users {
		if slices.Contains(roleIDs, u.RoleID) {
			matched = append(matched, *u)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FullName != matched[j].FullName {
			return matched[i].FullName < matched[j].FullName
		}
		return matched[i].Email < matched[j].Email
	})

	total := int64(len(matched))
	from := (page - 1) * limit
	if from >= len(matched) {
		return []entity.User{}, total, nil
	}
	to := min(from+limit, len(matched))
	return matched[from:to], total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil
	}
	if entity.RoleNameByID(user.RoleID) == "" {
		return entity.ErrRoleNotFound
	}
	for id, u := range r.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return entity.ErrEmailAlreadyExists
		}
	}
	user.UpdatedAt = time.Now()

	stored := *user
	stored.Role = entity.Role{ID: user.RoleID, RoleName: entity.RoleNameByID(user.RoleID)}
	r.users[stored.ID] = &stored
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}
