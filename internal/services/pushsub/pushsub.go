// Package pushsub содержит бизнес-логику подписок на push-уведомления.
package pushsub

import (
	"context"

	"github.com/carbuddy/backend/internal/models"
)

// SubscriptionRepository описывает контракт для работы с подписками.
type SubscriptionRepository interface {
	// UpsertPushSubscription создаёт или обновляет подписку по endpoint.
	UpsertPushSubscription(ctx context.Context, sub models.PushSubscription) (int64, error)
	// DeletePushSubscriptionByEndpointAndUser удаляет подписку пользователя.
	DeletePushSubscriptionByEndpointAndUser(ctx context.Context, endpoint, userUID string) error
	// ListPushSubscriptionsByUser возвращает подписки пользователя.
	ListPushSubscriptionsByUser(ctx context.Context, userUID string) ([]*models.PushSubscription, error)
}

// PushSubService отвечает за регистрацию и отзыв push-подписок.
type PushSubService struct {
	repo SubscriptionRepository
}

// NewPushSubService создает новый экземпляр PushSubService.
func NewPushSubService(repo SubscriptionRepository) *PushSubService {
	return &PushSubService{repo: repo}
}

// Subscribe регистрирует подписку браузера за пользователем. Повторная
// регистрация того же endpoint обновляет ключи и владельца.
func (s *PushSubService) Subscribe(ctx context.Context, userUID string, sub models.PushSubscription) (int64, error) {
	sub.UserUID = userUID
	return s.repo.UpsertPushSubscription(ctx, sub)
}

// Unsubscribe удаляет подписку пользователя по endpoint. Чужой endpoint
// удалить нельзя: удаление сверяет владельца.
func (s *PushSubService) Unsubscribe(ctx context.Context, userUID, endpoint string) error {
	return s.repo.DeletePushSubscriptionByEndpointAndUser(ctx, endpoint, userUID)
}

// List возвращает подписки пользователя.
func (s *PushSubService) List(ctx context.Context, userUID string) ([]*models.PushSubscription, error) {
	return s.repo.ListPushSubscriptionsByUser(ctx, userUID)
}
