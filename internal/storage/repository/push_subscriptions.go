package repository

import (
	"context"
	"fmt"

	"github.com/carbuddy/backend/internal/models"
)

// UpsertPushSubscription сохраняет push-подписку. Повторная подписка
// с тем же endpoint заменяет владельца и ключи (upsert по endpoint).
func (s *Storage) UpsertPushSubscription(ctx context.Context, sub models.PushSubscription) (int64, error) {
	const op = "storage.UpsertPushSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO push_subscriptions (user_uid, endpoint, p256dh, auth)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (endpoint) DO UPDATE
			  SET user_uid = EXCLUDED.user_uid,
			      p256dh = EXCLUDED.p256dh,
			      auth = EXCLUDED.auth
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.Endpoint, sub.P256DH, sub.Auth).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListPushSubscriptionsByUser возвращает все push-подписки пользователя.
func (s *Storage) ListPushSubscriptionsByUser(ctx context.Context, userUID string) ([]*models.PushSubscription, error) {
	const op = "storage.ListPushSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, endpoint, p256dh, auth, created_at
			  FROM push_subscriptions
			  WHERE user_uid = $1`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PushSubscription
	for rows.Next() {
		p := &models.PushSubscription{}
		if err = rows.Scan(&p.ID, &p.UserUID, &p.Endpoint, &p.P256DH, &p.Auth,
			&p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeletePushSubscriptionByEndpoint удаляет подписку по endpoint.
// Отсутствие записи ошибкой не считается: подписку могли удалить
// конкурентно (например, планировщик после ответа 410).
func (s *Storage) DeletePushSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	const op = "storage.DeletePushSubscriptionByEndpoint"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM push_subscriptions WHERE endpoint = $1`
	if _, err := s.DB.ExecContext(ctx, query, endpoint); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeletePushSubscriptionByEndpointAndUser удаляет подписку по endpoint,
// но только если она принадлежит указанному пользователю (отписка).
func (s *Storage) DeletePushSubscriptionByEndpointAndUser(ctx context.Context, endpoint, userUID string) error {
	const op = "storage.DeletePushSubscriptionByEndpointAndUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM push_subscriptions WHERE endpoint = $1 AND user_uid = $2`
	res, err := s.DB.ExecContext(ctx, query, endpoint, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
