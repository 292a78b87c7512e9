package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims — данные, хранящиеся в токене. Идентификатор принципала лежит
// в стандартном поле Subject, кастомных полей нет: Gate в любом случае
// загружает принципала из хранилища.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken выпускает токен с TTL по умолчанию.
func (m *MakerImpl) GenerateToken(subjectUID string) (string, time.Time, error) {
	return m.GenerateTokenWithTTL(subjectUID, m.tokenTTL)
}

// GenerateTokenWithTTL выпускает токен с заданным сроком жизни, подписывая
// его секретным ключом. Возвращает токен и абсолютное время истечения.
func (m *MakerImpl) GenerateTokenWithTTL(subjectUID string, ttl time.Duration) (string, time.Time, error) {
	const op = "jwt.GenerateTokenWithTTL"
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return signed, expiresAt, nil
}

// ParseToken разбирает токен, проверяет подпись и срок жизни и возвращает
// Claims, если токен корректен. Просроченный, повреждённый и подписанный
// чужим секретом токены одинаково приводят к ошибке.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
