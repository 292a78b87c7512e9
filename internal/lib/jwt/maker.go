// Package jwt реализует выпуск и проверку JWT токенов CarBuddy.
//
// Maker описывает контракт выпуска и проверки; MakerImpl — реализация
// на HS256 с секретным ключом и сроком жизни по умолчанию. Для
// пользователей и администраторов создаются отдельные Maker с разными
// секретами, токены между ними невзаимозаменяемы.
package jwt

import "time"

// Maker описывает интерфейс для выпуска и разбора токенов.
type Maker interface {
	// GenerateToken выпускает токен для принципала с TTL по умолчанию
	// и возвращает токен вместе с абсолютным временем истечения.
	GenerateToken(subjectUID string) (string, time.Time, error)
	// GenerateTokenWithTTL выпускает токен с явно заданным сроком жизни.
	GenerateTokenWithTTL(subjectUID string, ttl time.Duration) (string, time.Time, error)
	// ParseToken проверяет подпись и срок жизни токена и возвращает claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена по умолчанию.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов
	tokenTTL  time.Duration // Время жизни токена по умолчанию
}

// NewMaker создаёт новый MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
