package models

import "time"

// PushSubscription представляет браузерную push-подписку пользователя.
// Endpoint уникален; повторная подписка с тем же endpoint заменяет ключи.
type PushSubscription struct {
	ID        int64     // Идентификатор записи
	UserUID   string    // Владелец подписки
	Endpoint  string    // URL точки доставки push-сервиса (уникальный)
	P256DH    string    // Публичный ключ подписки
	Auth      string    // Секрет аутентификации подписки
	CreatedAt time.Time // Дата создания подписки
}

// DummyPushSubscription используется для приёма подписки из JSON-запроса
// в том виде, в котором её отдаёт PushManager браузера.
type DummyPushSubscription struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256DH string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// DummyPushUnsubscribe используется для отписки по endpoint.
type DummyPushUnsubscribe struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}
