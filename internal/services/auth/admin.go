package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carbuddy/backend/internal/lib/jwt"
	"github.com/carbuddy/backend/internal/lib/password"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// AdminRepository описывает контракт для работы с администраторами.
type AdminRepository interface {
	// GetAdminByUsername возвращает администратора по имени.
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	// GetAdminByUID возвращает администратора по UID.
	GetAdminByUID(ctx context.Context, adminUID string) (*models.Admin, error)
	// SetUserBanned выставляет флаг блокировки пользователя.
	SetUserBanned(ctx context.Context, userUID string, banned bool) error
}

// AdminService — админский вариант аутентификации. Та же форма, что и
// у AuthService, но отдельное хранилище принципалов и отдельный секрет
// подписи; реестр сессий для админов не ведётся, проверяется только
// подпись и срок жизни токена.
type AdminService struct {
	admins   AdminRepository
	jwtMaker jwt.Maker
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(admins AdminRepository, jwtMaker jwt.Maker) *AdminService {
	return &AdminService{
		admins:   admins,
		jwtMaker: jwtMaker,
	}
}

// LoginAdmin проверяет пароль администратора и выпускает токен.
func (s *AdminService) LoginAdmin(ctx context.Context, username, rawPassword string) (string, time.Time, error) {
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if err := password.CompareHash(admin.PasswordHash, rawPassword); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(admin.UID)
}

// AuthenticateAdmin проверяет админский токен и загружает администратора.
func (s *AdminService) AuthenticateAdmin(ctx context.Context, token string) (*models.Admin, error) {
	const op = "auth.AuthenticateAdmin"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	admin, err := s.admins.GetAdminByUID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}
		return nil, err
	}
	return admin, nil
}

// BanUser блокирует пользователя; заблокированный пользователь
// перестаёт проходить пользовательский Gate.
func (s *AdminService) BanUser(ctx context.Context, userUID string) error {
	return s.admins.SetUserBanned(ctx, userUID, true)
}
