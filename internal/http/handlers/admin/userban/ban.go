// Package userban реализует HTTP-обработчик блокировки пользователя
// администратором. Заблокированный пользователь перестаёт проходить
// аутентификацию.
package userban

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

// Service описывает интерфейс бизнес-логики блокировки пользователей.
type Service interface {
	BanUser(ctx context.Context, userUID string) error
}

// Handler управляет HTTP-запросами на блокировку пользователей.
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
// @Summary Заблокировать пользователя
// @Description Блокирует пользователя по UID. Доступно только администраторам.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь заблокирован"
// @Failure 401 {object} response.ErrorResponse "Администратор не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users/{uid}/ban [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userban"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	admin, ok := middlewarectx.AdminFromContext(r.Context())
	if !ok {
		log.Error("admin not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	userUID := chi.URLParam(r, "uid")
	if err := h.service.BanUser(r.Context(), userUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("user not found", sl.UID(userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to ban user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not ban user"))
		return
	}

	log.Info("user banned", sl.UID(userUID), slog.String("admin", admin.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": userUID,
	}))
}
