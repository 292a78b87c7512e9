// Package sl содержит вспомогательные функции для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Обеспечивает единообразный вывод ошибок во всех сервисах CarBuddy.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// UID возвращает slog.Attr с ключом "uid" для идентификаторов сущностей.
func UID(uid string) slog.Attr {
	return slog.Attr{
		Key:   "uid",
		Value: slog.StringValue(uid),
	}
}
