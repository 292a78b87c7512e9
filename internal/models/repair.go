package models

import "time"

// Repair представляет запись о ремонте автомобиля. Записи неизменяемы:
// после создания доступны только чтение и листинг.
type Repair struct {
	ID              int64     // Идентификатор записи
	CarUID          string    // Автомобиль, к которому относится ремонт
	Date            time.Time // Дата ремонта
	Kind            string    // Тип ремонта
	Cost            float64   // Стоимость
	Workshop        string    // Мастерская (опционально)
	Description     string    // Описание (опционально)
	Notes           string    // Заметки (опционально)
	MileageAtRepair int       // Пробег на момент ремонта (0, если не указан)
	CreatedAt       time.Time // Дата создания записи
}

// DummyRepair используется для приёма данных ремонта из JSON-запроса.
// Дата приходит строкой в формате 02-01-2006.
type DummyRepair struct {
	Date            string  `json:"date" validate:"required"`
	Kind            string  `json:"kind" validate:"required,max=100"`
	Cost            float64 `json:"cost" validate:"required,gte=0"`
	Workshop        string  `json:"workshop" validate:"omitempty,max=100"`
	Description     string  `json:"description" validate:"omitempty,max=500"`
	Notes           string  `json:"notes" validate:"omitempty,max=500"`
	MileageAtRepair int     `json:"mileage_at_repair" validate:"omitempty,gte=0"`
}
