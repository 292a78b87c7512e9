// Package carlist реализует HTTP-обработчик списка автомобилей пользователя.
package carlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/carbuddy/backend/internal/http/middlewarectx"
	"github.com/carbuddy/backend/internal/http/response"
	"github.com/carbuddy/backend/internal/lib/sl"
	"github.com/carbuddy/backend/internal/models"
)

// Service описывает интерфейс бизнес-логики списка автомобилей.
type Service interface {
	List(ctx context.Context, ownerUID string) ([]*models.Car, error)
}

// Handler управляет HTTP-запросами на получение списка автомобилей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список автомобилей
// @Description Возвращает все автомобили текущего пользователя.
// @Tags Cars
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список автомобилей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cars, err := h.service.List(r.Context(), principal.UID)
	if err != nil {
		log.Error("failed to list cars", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list cars"))
		return
	}

	log.Info("cars listed", sl.UID(principal.UID), slog.Int("count", len(cars)))
	render.JSON(w, r, response.StatusOKWithData(cars))
}
