package models

import "time"

// Car представляет автомобиль пользователя. Каждый автомобиль принадлежит
// ровно одному владельцу, VIN уникален в пределах всей системы.
type Car struct {
	UID            string     // Уникальный идентификатор автомобиля
	OwnerUID       string     // Идентификатор владельца
	VIN            string     // VIN (уникальный)
	Make           string     // Марка
	Model          string     // Модель
	Year           int        // Год выпуска
	Kilometers     int        // Пробег
	Color          string     // Цвет
	FuelType       string     // Тип топлива
	EngineLiters   float64    // Объём двигателя в литрах
	PowerHP        int        // Мощность в л.с.
	RegistrationNo string     // Регистрационный номер
	PurchaseDate   *time.Time // Дата покупки (nil, если не указана)
	CreatedAt      time.Time  // Дата добавления в систему
}

// CarSummary — краткая сводка автомобиля, встраиваемая в AuthUser.
// Не содержит технических атрибутов, только идентификацию.
type CarSummary struct {
	UID        string    `json:"uid"`
	VIN        string    `json:"vin"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	Kilometers int       `json:"kilometers"`
	Color      string    `json:"color"`
	CreatedAt  time.Time `json:"created_at"`
	OwnerUID   string    `json:"owner_uid"`
}

// DummyCar используется для приёма данных автомобиля из JSON-запроса.
// Дата покупки приходит строкой в формате 02-01-2006.
type DummyCar struct {
	VIN            string  `json:"vin" validate:"required,len=17"`
	Make           string  `json:"make" validate:"required,max=50"`
	Model          string  `json:"model" validate:"required,max=50"`
	Year           int     `json:"year" validate:"required,gte=1900,lte=2100"`
	Kilometers     int     `json:"kilometers" validate:"omitempty,gte=0"`
	Color          string  `json:"color" validate:"omitempty,max=30"`
	FuelType       string  `json:"fuel_type" validate:"omitempty,max=30"`
	EngineLiters   float64 `json:"engine_liters" validate:"omitempty,gt=0"`
	PowerHP        int     `json:"power_hp" validate:"omitempty,gt=0"`
	RegistrationNo string  `json:"registration_no" validate:"omitempty,max=20"`
	PurchaseDate   string  `json:"purchase_date" validate:"omitempty"`
}
