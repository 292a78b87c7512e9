package carread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carbuddy/backend/internal/http/middlewarectx"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// MockService реализует интерфейс carread.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, ownerUID, carUID string) (*models.Car, error) {
	args := m.Called(ctx, ownerUID, carUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Car), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		carUID         string
		principal      *models.AuthUser
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное чтение автомобиля",
			carUID:    "car-1",
			principal: &models.AuthUser{UID: "uid-1"},
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "uid-1", "car-1").
					Return(&models.Car{UID: "car-1", Make: "Honda", Model: "Accord"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Make":"Honda"`,
		},
		{
			name:      "чужой автомобиль выглядит отсутствующим",
			carUID:    "car-2",
			principal: &models.AuthUser{UID: "uid-1"},
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "uid-1", "car-2").
					Return(nil, fmt.Errorf("car.Get: %w", repository.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"car not found"`,
		},
		{
			name:           "нет принципала в контексте",
			carUID:         "car-1",
			principal:      nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:      "ошибка сервиса чтения",
			carUID:    "car-3",
			principal: &models.AuthUser{UID: "uid-1"},
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "uid-1", "car-3").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read car"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/cars/"+tt.carUID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.carUID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.principal != nil {
				ctx = context.WithValue(ctx, middlewarectx.PrincipalKey, tt.principal)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
