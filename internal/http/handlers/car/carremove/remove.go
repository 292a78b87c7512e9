// Package carremove реализует HTTP-обработчик удаления автомобиля.
//
// Вместе с автомобилем каскадно удаляются его ремонты, расходы и план
// проверки жидкостей.
package carremove

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

// Service описывает интерфейс бизнес-логики удаления автомобиля.
type Service interface {
	Delete(ctx context.Context, ownerUID, carUID string) error
}

// Handler управляет HTTP-запросами на удаление автомобилей.
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
// @Summary Удалить автомобиль
// @Description Удаляет автомобиль текущего пользователя вместе с историей.
// @Tags Cars
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID автомобиля"
// @Success 200 {object} response.Response "Автомобиль удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.remove"
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
	if err := h.service.Delete(r.Context(), principal.UID, carUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("car not found", slog.String("car_uid", carUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("car not found"))
			return
		}
		log.Error("failed to delete car", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete car"))
		return
	}

	log.Info("car deleted", slog.String("car_uid", carUID), sl.UID(principal.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": carUID,
	}))
}
