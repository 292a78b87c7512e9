package models

import "time"

// AuthToken — запись реестра сессий: выданный и ещё не отозванный токен.
// Logout удаляет все записи пользователя; просроченные записи
// отбраковываются лениво при проверке.
type AuthToken struct {
	ID        int64     // Идентификатор записи
	UserUID   string    // Владелец сессии
	Token     string    // Подписанное значение токена
	ExpiresAt time.Time // Абсолютное время истечения
	CreatedAt time.Time // Время выдачи
}
