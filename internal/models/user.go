// Package models содержит доменные структуры CarBuddy: пользователи,
// автомобили, ремонты, расходы, планы проверки жидкостей и push-подписки.
// Здесь же определены вспомогательные Dummy-структуры для приёма данных
// из JSON-запросов до их валидации.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная)
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Name         string    // Отображаемое имя
	Premium      bool      // Доступ к премиум-функциям (планы проверки жидкостей)
	Banned       bool      // Заблокированный пользователь не проходит аутентификацию
	CreatedAt    time.Time // Дата регистрации
}

// AuthUser — аутентифицированный принципал, который middleware кладёт
// в контекст запроса. Не содержит секретов, но включает сводки автомобилей.
type AuthUser struct {
	UID      string       `json:"uid"`
	Email    string       `json:"email"`
	Username string       `json:"username"`
	Name     string       `json:"name"`
	Premium  bool         `json:"premium"`
	Cars     []CarSummary `json:"cars"`
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyLogin используется для приёма учетных данных из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyProfileUpdate используется для обновления профиля пользователя.
type DummyProfileUpdate struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=100"`
}

// DummyPasswordChange используется для смены пароля пользователя.
type DummyPasswordChange struct {
	OldPassword string `json:"old_password" validate:"required,min=6"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
