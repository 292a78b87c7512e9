package carcreate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carbuddy/backend/internal/http/middlewarectx"
	"github.com/carbuddy/backend/internal/models"
)

// MockService реализует интерфейс carcreate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, ownerUID string, car models.Car) (string, error) {
	args := m.Called(ctx, ownerUID, car)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"vin":"1HGCM82633A004352","make":"Honda","model":"Accord","year":2019,"kilometers":54000,"purchase_date":"15-06-2020"}`

	tests := []struct {
		name           string
		body           string
		principal      *models.AuthUser
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное добавление автомобиля",
			body:      validBody,
			principal: &models.AuthUser{UID: "uid-1"},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.MatchedBy(func(c models.Car) bool {
					return c.VIN == "1HGCM82633A004352" && c.PurchaseDate != nil
				})).Return("car-uid-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"uid":"car-uid-1"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"vin":`,
			principal:      &models.AuthUser{UID: "uid-1"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "VIN неправильной длины",
			body:           `{"vin":"SHORT","make":"Honda","model":"Accord","year":2019}`,
			principal:      &models.AuthUser{UID: "uid-1"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field VIN has invalid length`,
		},
		{
			name:           "некорректная дата покупки",
			body:           `{"vin":"1HGCM82633A004352","make":"Honda","model":"Accord","year":2019,"purchase_date":"2020/06/15"}`,
			principal:      &models.AuthUser{UID: "uid-1"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `purchase_date must be in format`,
		},
		{
			name:           "нет принципала в контексте",
			body:           validBody,
			principal:      nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:      "ошибка сервиса",
			body:      validBody,
			principal: &models.AuthUser{UID: "uid-1"},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create car"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/cars", strings.NewReader(tt.body))
			if tt.principal != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.PrincipalKey, tt.principal)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
