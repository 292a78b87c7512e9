// Package carupdate реализует HTTP-обработчик обновления автомобиля.
package carupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/carbuddy/backend/internal/http/handlers/car/carcreate"
	"github.com/carbuddy/backend/internal/http/middlewarectx"
	"github.com/carbuddy/backend/internal/http/response"
	"github.com/carbuddy/backend/internal/lib/sl"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики обновления автомобиля.
type Service interface {
	Update(ctx context.Context, ownerUID string, car models.Car) error
}

// Handler управляет HTTP-запросами на обновление автомобилей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить автомобиль
// @Description Обновляет атрибуты автомобиля текущего пользователя.
// @Tags Cars
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID автомобиля"
// @Param request body models.DummyCar true "Новые данные автомобиля"
// @Success 200 {object} response.Response "Автомобиль обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars/{uid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCar
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	car, err := carcreate.CarFromRequest(req)
	if err != nil {
		log.Error("failed to parse purchase date", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("field purchase_date must be in format 02-01-2006"))
		return
	}

	principal, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	car.UID = chi.URLParam(r, "uid")
	if err := h.service.Update(r.Context(), principal.UID, car); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("car not found", slog.String("car_uid", car.UID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("car not found"))
			return
		}
		log.Error("failed to update car", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update car"))
		return
	}

	log.Info("car updated", slog.String("car_uid", car.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": car.UID,
	}))
}
