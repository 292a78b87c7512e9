// Package plandisable реализует HTTP-обработчик отключения плана
// проверки жидкостей. Отключение мягкое: строка плана остаётся,
// но планировщик её больше не выбирает.
package plandisable

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/carbuddy/backend/internal/http/middlewarectx"
	"github.com/carbuddy/backend/internal/http/response"
	"github.com/carbuddy/backend/internal/lib/sl"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики отключения плана.
type Service interface {
	Disable(ctx context.Context, ownerUID, carUID string) error
}

// Handler управляет HTTP-запросами на отключение планов проверки.
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
// @Summary Отключить план проверки жидкостей
// @Description Выключает план проверки автомобиля. Требуется премиум.
// @Tags FluidCheck
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID автомобиля"
// @Success 200 {object} response.Response "План отключен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется премиум"
// @Failure 404 {object} response.ErrorResponse "Автомобиль или план не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars/{uid}/fluidcheck [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.disable"
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

	carUID := chi.URLParam(r, "uid")
	if err := h.service.Disable(r.Context(), principal.UID, carUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("plan not found", slog.String("car_uid", carUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("fluid check plan not found"))
			return
		}
		log.Error("failed to disable plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not disable fluid check plan"))
		return
	}

	log.Info("fluid check plan disabled", slog.String("car_uid", carUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"car_uid": carUID,
	}))
}
