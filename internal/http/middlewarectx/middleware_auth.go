// Package middlewarectx содержит HTTP middleware: проверку токенов
// пользователя и администратора, премиум-доступа и ограничение частоты
// запросов.
//
// AuthMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization и в случае успеха кладёт в контекст аутентифицированного
// принципала для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized. Причина
// отказа наружу не раскрывается: повреждённый, просроченный и отозванный
// токены дают один и тот же ответ.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/carbuddy/backend/internal/http/response"
	"github.com/carbuddy/backend/internal/lib/sl"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// PrincipalKey — ключ аутентифицированного пользователя в контексте.
	PrincipalKey Key = "principal"
	// AdminKey — ключ аутентифицированного администратора в контексте.
	AdminKey Key = "admin"
)

// AuthService описывает интерфейс проверки пользовательского токена.
type AuthService interface {
	Authenticate(ctx context.Context, token string) (*models.AuthUser, error)
}

// AdminService описывает интерфейс проверки админского токена.
type AdminService interface {
	AuthenticateAdmin(ctx context.Context, token string) (*models.Admin, error)
}

// UserFromContext возвращает принципала запроса, если он установлен.
func UserFromContext(ctx context.Context) (*models.AuthUser, bool) {
	user, ok := ctx.Value(PrincipalKey).(*models.AuthUser)
	return user, ok
}

// AdminFromContext возвращает администратора запроса, если он установлен.
func AdminFromContext(ctx context.Context) (*models.Admin, bool) {
	admin, ok := ctx.Value(AdminKey).(*models.Admin)
	return admin, ok
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// AuthMiddleware возвращает HTTP middleware, который проверяет JWT
// в заголовке Authorization через AuthService.
//
// Запрос без заголовка отклоняется до какого-либо обращения к хранилищу.
// Если токен валиден, принципал добавляется в контекст запроса, иначе
// возвращается HTTP 401 Unauthorized.
func AuthMiddleware(log *slog.Logger, service AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := bearerToken(r)
			if !ok {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			principal, err := service.Authenticate(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					log.Error("invalid or expired token", sl.Err(err))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
					return
				}
				log.Error("failed to authenticate request", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuthMiddleware — админский вариант проверки токена. Та же форма,
// что и у AuthMiddleware, но отдельный секрет подписи и отдельное
// хранилище принципалов.
func AdminAuthMiddleware(log *slog.Logger, service AdminService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminAuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := bearerToken(r)
			if !ok {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			admin, err := service.AuthenticateAdmin(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					log.Error("invalid or expired admin token", sl.Err(err))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
					return
				}
				log.Error("failed to authenticate admin request", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
