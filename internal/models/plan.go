package models

import "time"

// FluidCheckPlan представляет план периодической проверки жидкостей
// автомобиля. Инвариант: после каждого успешного переноса
// NextCheck = LastCheck + IntervalDays.
type FluidCheckPlan struct {
	ID           int64     // Идентификатор плана
	CarUID       string    // Автомобиль, к которому относится план
	IntervalDays int       // Интервал проверки в днях
	LastCheck    time.Time // Время последней проверки (или создания плана)
	NextCheck    time.Time // Время следующей проверки
	Enabled      bool      // Отключённые планы планировщик не трогает
}

// DuePlan — строка выборки планировщика: просроченный план вместе
// с данными автомобиля и идентификатором владельца.
type DuePlan struct {
	PlanID       int64  // Идентификатор плана
	CarUID       string // Идентификатор автомобиля
	IntervalDays int    // Интервал проверки в днях
	CarMake      string // Марка автомобиля для текста уведомления
	CarModel     string // Модель автомобиля для текста уведомления
	OwnerUID     string // Идентификатор владельца
	OwnerEmail   string // Почта владельца для e-mail канала
	OwnerName    string // Имя владельца для e-mail канала
}

// DummyPlan используется для приёма параметров плана из JSON-запроса.
type DummyPlan struct {
	IntervalDays int `json:"interval_days" validate:"required,gte=1,lte=365"`
}

// ReminderPayload — содержимое push-уведомления о проверке жидкостей.
// Один payload строится на план и рассылается на все подписки владельца.
type ReminderPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ReminderEvent — событие для e-mail канала напоминаний, публикуется
// планировщиком в RabbitMQ и потребляется notification-sender.
type ReminderEvent struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CarMake   string    `json:"car_make"`
	CarModel  string    `json:"car_model"`
	NextCheck time.Time `json:"next_check"`
}
