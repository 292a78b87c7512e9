// Package auth содержит бизнес-логику регистрации, входа, выхода
// и аутентификации пользователей.
//
// Реестр сессий (таблица auth_tokens) — источник истины для вопроса
// "жива ли ещё сессия": Authenticate сверяется с ним, поэтому токен,
// отозванный через Logout, перестаёт проходить проверку до истечения
// своей криптографической подписи.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carbuddy/backend/internal/lib/jwt"
	"github.com/carbuddy/backend/internal/lib/password"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthenticated возвращается, когда токен не проходит проверку:
// повреждён, просрочен, отозван или принципал не найден. Причины
// наружу не различаются.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserRepository описывает контракт для работы с пользователями.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByUID возвращает пользователя по UID.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// ListCarSummariesByOwner возвращает сводки автомобилей владельца.
	ListCarSummariesByOwner(ctx context.Context, ownerUID string) ([]models.CarSummary, error)
	// UpdateUserPassword обновляет хэш пароля.
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
	// UpdateUserProfile обновляет имя и почту.
	UpdateUserProfile(ctx context.Context, userUID, name, email string) error
}

// TokenRepository описывает контракт реестра сессий.
type TokenRepository interface {
	// InsertAuthToken добавляет выданный токен в реестр.
	InsertAuthToken(ctx context.Context, token models.AuthToken) error
	// GetAuthToken возвращает запись реестра по значению токена.
	GetAuthToken(ctx context.Context, token string) (*models.AuthToken, error)
	// DeleteAuthTokensByUser отзывает все сессии пользователя.
	DeleteAuthTokensByUser(ctx context.Context, userUID string) (int64, error)
}

// AuthService отвечает за регистрацию, вход, выход и аутентификацию.
type AuthService struct {
	users    UserRepository
	tokens   TokenRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens TokenRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Premium при регистрации выключен.
func (s *AuthService) Register(ctx context.Context, email, username, name, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		UID:          uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Name:         name,
		Premium:      false,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя, выпускает токен и регистрирует
// сессию в реестре. Возвращает токен и абсолютное время его истечения.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, time.Time, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtMaker.GenerateToken(user.UID)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.tokens.InsertAuthToken(ctx, models.AuthToken{
		UserUID:   user.UID,
		Token:     token,
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Logout отзывает все сессии пользователя. Возвращает число отозванных.
func (s *AuthService) Logout(ctx context.Context, userUID string) (int64, error) {
	return s.tokens.DeleteAuthTokensByUser(ctx, userUID)
}

// Authenticate проверяет токен и возвращает принципала для запроса:
// подпись и срок жизни, запись реестра сессий, затем загрузка
// пользователя со сводками его автомобилей. Любая причина отказа
// сворачивается в ErrUnauthenticated; ошибки хранилища пробрасываются
// как есть.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.AuthUser, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	session, err := s.tokens.GetAuthToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now().UTC()) || session.UserUID != claims.Subject {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	user, err := s.users.GetUserByUID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}
		return nil, err
	}
	if user.Banned {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	cars, err := s.users.ListCarSummariesByOwner(ctx, user.UID)
	if err != nil {
		return nil, err
	}

	return &models.AuthUser{
		UID:      user.UID,
		Email:    user.Email,
		Username: user.Username,
		Name:     user.Name,
		Premium:  user.Premium,
		Cars:     cars,
	}, nil
}

// UpdateProfile обновляет имя и почту пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID, name, email string) error {
	return s.users.UpdateUserProfile(ctx, userUID, name, email)
}

// ChangePassword меняет пароль после проверки старого.
func (s *AuthService) ChangePassword(ctx context.Context, userUID, oldPassword, newPassword string) error {
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateUserPassword(ctx, userUID, hashed)
}
