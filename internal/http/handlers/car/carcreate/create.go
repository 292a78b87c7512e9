// Package carcreate реализует HTTP-обработчик добавления автомобиля.
//
// Handler принимает JSON-запрос с данными автомобиля, валидирует их,
// извлекает принципала из контекста, вызывает бизнес-логику создания и
// возвращает UID созданной записи в JSON-формате.
package carcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/carbuddy/backend/internal/http/middlewarectx"
	"github.com/carbuddy/backend/internal/http/response"
	"github.com/carbuddy/backend/internal/lib/sl"
	"github.com/carbuddy/backend/internal/models"
)

// DateLayout — формат дат в JSON-запросах.
const DateLayout = "02-01-2006"

// Service описывает интерфейс бизнес-логики добавления автомобиля.
type Service interface {
	Create(ctx context.Context, ownerUID string, car models.Car) (string, error)
}

// Handler управляет HTTP-запросами на добавление автомобилей.
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
// @Summary Добавить автомобиль
// @Description Добавляет автомобиль текущему пользователю. Возвращает UID созданной записи.
// @Tags Cars
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCar true "Данные автомобиля"
// @Success 200 {object} response.Response "Автомобиль добавлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.create"
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

	car, err := CarFromRequest(req)
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

	uid, err := h.service.Create(r.Context(), principal.UID, car)
	if err != nil {
		log.Error("failed to create car", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create car"))
		return
	}

	log.Info("car created", slog.String("car_uid", uid), sl.UID(principal.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": uid,
	}))
}

// CarFromRequest превращает проверенный DTO в доменную модель. Дата
// покупки опциональна и приходит строкой.
func CarFromRequest(req models.DummyCar) (models.Car, error) {
	car := models.Car{
		VIN:            req.VIN,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Kilometers:     req.Kilometers,
		Color:          req.Color,
		FuelType:       req.FuelType,
		EngineLiters:   req.EngineLiters,
		PowerHP:        req.PowerHP,
		RegistrationNo: req.RegistrationNo,
	}
	if req.PurchaseDate != "" {
		parsed, err := time.Parse(DateLayout, req.PurchaseDate)
		if err != nil {
			return models.Car{}, err
		}
		car.PurchaseDate = &parsed
	}
	return car, nil
}
