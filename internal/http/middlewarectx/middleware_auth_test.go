package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carbuddy/backend/internal/lib/jwt"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/services/auth"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.AuthUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthUser), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) AuthenticateAdmin(ctx context.Context, token string) (*models.Admin, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoHeader_RejectedBeforeService(t *testing.T) {
	service := new(MockAuthService)
	var called bool
	handler := AuthMiddleware(discardLogger(), service)(okHandler(&called))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cars", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.False(t, called)
			// Отказ происходит до какого-либо обращения к сервису.
			service.AssertNotCalled(t, "Authenticate")
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	service := new(MockAuthService)
	service.On("Authenticate", mock.Anything, "bad-token").
		Return(nil, auth.ErrUnauthenticated)

	var called bool
	handler := AuthMiddleware(discardLogger(), service)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/cars", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called)
}

func TestAuthMiddleware_ValidToken_AttachesPrincipal(t *testing.T) {
	service := new(MockAuthService)
	principal := &models.AuthUser{UID: "uid-1", Username: "driver", Cars: []models.CarSummary{}}
	service.On("Authenticate", mock.Anything, "good-token").Return(principal, nil)

	var got *models.AuthUser
	handler := AuthMiddleware(discardLogger(), service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cars", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "uid-1", got.UID)
	assert.Empty(t, got.Cars)
}

func TestAuthMiddleware_StoreErrorIs500(t *testing.T) {
	service := new(MockAuthService)
	service.On("Authenticate", mock.Anything, "token").
		Return(nil, assert.AnError)

	var called bool
	handler := AuthMiddleware(discardLogger(), service)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/cars", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, called)
}

// Токены пользователя и администратора не взаимозаменяемы: каждый
// вариант проверки подписан своим секретом.
func TestGates_SecretsNotInterchangeable(t *testing.T) {
	userMaker := jwt.NewMaker("user_secret", time.Hour)
	adminMaker := jwt.NewMaker("admin_secret", time.Hour)

	userToken, _, err := userMaker.GenerateToken("uid-1")
	require.NoError(t, err)
	adminToken, _, err := adminMaker.GenerateToken("admin-1")
	require.NoError(t, err)

	_, err = userMaker.ParseToken(adminToken)
	assert.Error(t, err)
	_, err = adminMaker.ParseToken(userToken)
	assert.Error(t, err)
}

func TestGate_ExpiredTokenRejected(t *testing.T) {
	maker := jwt.NewMaker("user_secret", time.Hour)
	token, _, err := maker.GenerateTokenWithTTL("uid-1", -time.Minute)
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestPremiumMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		principal  *models.AuthUser
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "premium user passes",
			principal:  &models.AuthUser{UID: "uid-1", Premium: true},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "free user rejected",
			principal:  &models.AuthUser{UID: "uid-2", Premium: false},
			wantStatus: http.StatusForbidden,
			wantCalled: false,
		},
		{
			name:       "no principal",
			principal:  nil,
			wantStatus: http.StatusUnauthorized,
			wantCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := PremiumMiddleware(discardLogger())(okHandler(&called))

			req := httptest.NewRequest(http.MethodPut, "/cars/car-1/fluidcheck", nil)
			if tt.principal != nil {
				ctx := context.WithValue(req.Context(), PrincipalKey, tt.principal)
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}

func TestAdminAuthMiddleware_ValidToken(t *testing.T) {
	service := new(MockAdminService)
	admin := &models.Admin{UID: "admin-1", Username: "root"}
	service.On("AuthenticateAdmin", mock.Anything, "admin-token").Return(admin, nil)

	var got *models.Admin
	handler := AdminAuthMiddleware(discardLogger(), service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = AdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/users/uid-1/ban", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "admin-1", got.UID)
}
