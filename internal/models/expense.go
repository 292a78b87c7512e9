package models

import "time"

// Expense представляет расход на автомобиль. Жизненный цикл совпадает
// с Repair: создание и листинг, без обновления.
type Expense struct {
	ID          int64     // Идентификатор записи
	CarUID      string    // Автомобиль, к которому относится расход
	Date        time.Time // Дата расхода
	Category    string    // Категория (топливо, страховка, мойка и т.п.)
	Amount      float64   // Сумма
	Description string    // Описание (опционально)
	CreatedAt   time.Time // Дата создания записи
}

// DummyExpense используется для приёма данных расхода из JSON-запроса.
// Дата приходит строкой в формате 02-01-2006.
type DummyExpense struct {
	Date        string  `json:"date" validate:"required"`
	Category    string  `json:"category" validate:"required,max=50"`
	Amount      float64 `json:"amount" validate:"required,gte=0"`
	Description string  `json:"description" validate:"omitempty,max=500"`
}
