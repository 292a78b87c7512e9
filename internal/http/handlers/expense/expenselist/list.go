// Package expenselist реализует HTTP-обработчик списка расходов автомобиля.
package expenselist

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
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики списка расходов.
type Service interface {
	List(ctx context.Context, ownerUID, carUID string) ([]*models.Expense, error)
}

// Handler управляет HTTP-запросами на получение расходов автомобиля.
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
// @Summary Расходы автомобиля
// @Description Возвращает расходы автомобиля, новые первыми.
// @Tags Expenses
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID автомобиля"
// @Success 200 {object} response.Response "Список расходов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cars/{uid}/expenses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.list"
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
	expenses, err := h.service.List(r.Context(), principal.UID, carUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("car not found", slog.String("car_uid", carUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("car not found"))
			return
		}
		log.Error("failed to list expenses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list expenses"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(expenses))
}
