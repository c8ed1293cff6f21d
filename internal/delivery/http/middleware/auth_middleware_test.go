package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-medical-appointment/config"
	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*AuthMiddleware, *jwt.JWTService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	return NewAuthMiddleware(jwtService, client), jwtService, mr
}

func TestAuthenticate(t *testing.T) {
	auth, jwtService, mr := newTestAuth(t)
	userID := uuid.New()

	token, tokenID, err := jwtService.GenerateAccessToken(userID, "jane@example.com", entity.RoleIDClient)
	require.NoError(t, err)
	require.NoError(t, mr.Set("access_token:"+userID.String()+":"+tokenID, "valid"))

	var gotUser uuid.UUID
	var gotRole int
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetRoleIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		revoke bool
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, want: http.StatusNoContent},
		{name: "revoked token", header: "Bearer " + token, revoke: true, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.revoke {
				mr.Del("access_token:" + userID.String() + ":" + tokenID)
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}

	assert.Equal(t, userID, gotUser)
	assert.Equal(t, entity.RoleIDClient, gotRole)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name    string
		roleID  *int
		handler http.Handler
		want    int
	}{
		{name: "no role in context", handler: RequireStaff(ok), want: http.StatusUnauthorized},
		{name: "receptionist is staff", roleID: intPtr(entity.RoleIDReceptionist), handler: RequireStaff(ok), want: http.StatusNoContent},
		{name: "client is not staff", roleID: intPtr(entity.RoleIDClient), handler: RequireStaff(ok), want: http.StatusForbidden},
		{name: "receptionist is not admin", roleID: intPtr(entity.RoleIDReceptionist), handler: RequireAdmin(ok), want: http.StatusForbidden},
		{name: "admin is not a client", roleID: intPtr(entity.RoleIDAdmin), handler: RequireClient(ok), want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.roleID != nil {
				req = req.WithContext(context.WithValue(req.Context(), RoleIDKey, *tt.roleID))
			}
			rr := httptest.NewRecorder()
			tt.handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func intPtr(v int) *int { return &v }
