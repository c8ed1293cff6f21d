package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go-medical-appointment/internal/converter"
	"go-medical-appointment/internal/delivery/dto"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/domain/repository"
	"go-medical-appointment/internal/service"
	"go-medical-appointment/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUsecase interface {
	RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	EnsureStaffAccount(ctx context.Context, email, password, fullName string, roleID int) error
	RegisterStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffCreatedResponse, error)
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

type authUsecase struct {
	log           *logrus.Logger
	userRepo      repository.UserRepository
	loginAttempts repository.LoginAttemptStore
	jwtService    *jwt.JWTService
	redisClient   *redis.Client
	auditService  service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	loginAttempts repository.LoginAttemptStore,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:           log,
		userRepo:      userRepo,
		loginAttempts: loginAttempts,
		jwtService:    jwtService,
		redisClient:   redisClient,
		auditService:  auditService,
	}
}

func (u *authUsecase) RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.UserResponse, error) {
	user, err := u.createUser(ctx, &entity.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      entity.RoleIDClient,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	resp := converter.UserToResponse(user)
	u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), resp)
	return resp, nil
}

func (u *authUsecase) createUser(ctx context.Context, user *entity.User, password string) (*entity.User, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user.Email = strings.ToLower(user.Email)
	user.Password = string(hashedPassword)
	user.IsActive = true

	if err := u.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, entity.ErrEmailAlreadyExists) && !errors.Is(err, entity.ErrRoleNotFound) {
			u.log.Warnf("Failed to create user: %+v", err)
		}
		return nil, err
	}
	return user, nil
}

// RegisterStaff creates an admin or receptionist account. Without a password in
// the request one is generated and returned in the response only.
func (u *authUsecase) RegisterStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffCreatedResponse, error) {
	roleID, ok := entity.StaffRoleIDByName(req.Role)
	if !ok {
		return nil, entity.ErrInvalidStaffRole
	}

	password, generated := req.Password, ""
	if password == "" {
		var err error
		if password, err = generatePassword(); err != nil {
			u.log.Warnf("Failed to generate password: %+v", err)
			return nil, err
		}
		generated = password
	}

	user, err := u.createUser(ctx, &entity.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      roleID,
	}, password)
	if err != nil {
		return nil, err
	}

	resp := converter.UserToResponse(user)
	u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionStaffCreate, "user", user.ID.String(), resp)
	return &dto.StaffCreatedResponse{User: resp, GeneratedPassword: generated}, nil
}

// generatePassword returns 16 URL-safe characters from 96 random bits.
func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// EnsureStaffAccount creates a staff user unless the email is already registered.
func (u *authUsecase) EnsureStaffAccount(ctx context.Context, email, password, fullName string, roleID int) error {
	existing, err := u.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = u.createUser(ctx, &entity.User{Email: email, FullName: fullName, RoleID: roleID}, password)
	if err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	u.log.Infof("Seeded %s account %s", entity.RoleNameByID(roleID), email)
	return nil
}

// Login counts failures per email. Unknown emails are counted too so the
// response does not reveal which accounts exist.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	key := strings.ToLower(req.Email)

	locked, err := u.loginAttempts.IsLocked(ctx, key)
	if err != nil {
		u.log.Warnf("Failed to check login lock: %+v", err)
		return nil, err
	}
	if locked {
		return nil, ErrAccountLocked
	}

	user, err := u.userRepo.FindByEmail(ctx, key)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}

	if user == nil || !user.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, u.registerFailure(ctx, key, user)
	}

	if err := u.loginAttempts.Reset(ctx, key); err != nil {
		u.log.Warnf("Failed to reset login attempts: %+v", err)
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
	if err != nil {
		return nil, err
	}

	u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil)
	return tokens, nil
}

func (u *authUsecase) registerFailure(ctx context.Context, key string, user *entity.User) error {
	attempts, locked, err := u.loginAttempts.RegisterFailure(ctx, key)
	if err != nil {
		u.log.Warnf("Failed to register login failure: %+v", err)
		return err
	}
	if !locked {
		u.log.Debugf("Failed login %d for %s", attempts, key)
		return ErrInvalidCredentials
	}

	u.log.Infof("Locked login for %s after %d failed attempts", key, attempts)
	if user != nil {
		u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserLoginLocked, "user", user.ID.String(),
			map[string]int64{"attempts": attempts})
	}
	return ErrAccountLocked
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	// Store tokens in Redis
	if err := u.redisClient.Set(ctx, accessTokenKey(userID, accessTokenID), "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, refreshTokenKey(userID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{accessTokenKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, refreshTokenKey(userID, refreshTokenID))
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete tokens: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	// Validate refresh token
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Refresh tokens are single use
	deleted, err := u.redisClient.Del(ctx, refreshTokenKey(claims.UserID, claims.TokenID)).Result()
	if err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	// Claims may be stale: the account can be deactivated or change role
	// while the refresh token is still valid.
	user, err := u.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

// RevokeAllUserTokens deletes every access and refresh token of the user, so
// the auth middleware rejects tokens issued before the call.
func (u *authUsecase) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	for _, pattern := range []string{accessTokenKey(userID, "*"), refreshTokenKey(userID, "*")} {
		var keys []string
		iter := u.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			u.log.Warnf("Failed to scan token keys: %+v", err)
			return err
		}

		if len(keys) > 0 {
			if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
				u.log.Warnf("Failed to delete tokens: %+v", err)
				return err
			}
		}
	}
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func accessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

func refreshTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}
