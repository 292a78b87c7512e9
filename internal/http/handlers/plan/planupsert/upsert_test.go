package planupsert

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carbuddy/backend/internal/http/middlewarectx"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// MockService реализует интерфейс planupsert.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Upsert(ctx context.Context, ownerUID, carUID string, intervalDays int) (*models.FluidCheckPlan, error) {
	args := m.Called(ctx, ownerUID, carUID, intervalDays)
	if res := args.Get(0); res != nil {
		return res.(*models.FluidCheckPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpsertHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	premium := &models.AuthUser{UID: "uid-1", Premium: true}

	tests := []struct {
		name           string
		body           string
		principal      *models.AuthUser
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешная установка плана",
			body:      `{"interval_days":14}`,
			principal: premium,
			setupMock: func(m *MockService) {
				m.On("Upsert", mock.Anything, "uid-1", "car-1", 14).
					Return(&models.FluidCheckPlan{
						ID:           1,
						CarUID:       "car-1",
						IntervalDays: 14,
						LastCheck:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
						NextCheck:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
						Enabled:      true,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"IntervalDays":14`,
		},
		{
			name:           "интервал вне диапазона",
			body:           `{"interval_days":500}`,
			principal:      premium,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field IntervalDays is out of range`,
		},
		{
			name:           "нулевой интервал",
			body:           `{"interval_days":0}`,
			principal:      premium,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field IntervalDays is a required field`,
		},
		{
			name:      "чужой автомобиль",
			body:      `{"interval_days":14}`,
			principal: premium,
			setupMock: func(m *MockService) {
				m.On("Upsert", mock.Anything, "uid-1", "car-1", 14).
					Return(nil, fmt.Errorf("car.authorize: %w", repository.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"car not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/cars/car-1/fluidcheck", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", "car-1")
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
