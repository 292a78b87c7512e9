package models

import "time"

// Admin представляет администратора системы. Администраторы хранятся
// отдельно от пользователей и подписываются отдельным секретом.
type Admin struct {
	UID          string    // Уникальный идентификатор администратора
	Username     string    // Имя администратора (уникальное)
	PasswordHash string    // Хэш пароля
	CreatedAt    time.Time // Дата создания учетной записи
}
