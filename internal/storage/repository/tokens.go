package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carbuddy/backend/internal/models"
)

// InsertAuthToken добавляет выданный токен в реестр сессий.
func (s *Storage) InsertAuthToken(ctx context.Context, token models.AuthToken) error {
	const op = "storage.InsertAuthToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO auth_tokens (user_uid, token, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		token.UserUID, token.Token, token.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetAuthToken возвращает запись реестра сессий по значению токена.
func (s *Storage) GetAuthToken(ctx context.Context, token string) (*models.AuthToken, error) {
	const op = "storage.GetAuthToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, token, expires_at, created_at
			  FROM auth_tokens
			  WHERE token = $1`
	t := &models.AuthToken{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&t.ID, &t.UserUID, &t.Token, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DeleteAuthTokensByUser удаляет все сессии пользователя (logout отзывает
// сразу все сессии, а не одну). Возвращает число удалённых записей.
func (s *Storage) DeleteAuthTokensByUser(ctx context.Context, userUID string) (int64, error) {
	const op = "storage.DeleteAuthTokensByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM auth_tokens WHERE user_uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
