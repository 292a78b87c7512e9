// Package push реализует доставку web-push уведомлений на подписки
// пользователей. Постоянная недоступность endpoint (ответ push-сервиса
// 404/410) отличается от временных сбоев типизированной ошибкой, чтобы
// планировщик мог удалить мёртвую подписку и не трогать живые.
package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/carbuddy/backend/internal/config"
	"github.com/carbuddy/backend/internal/models"
)

// ErrSubscriptionGone сигнализирует, что endpoint подписки больше никогда
// не примет доставку и подписку следует удалить.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender описывает канал доставки push-уведомлений.
type Sender interface {
	// Send доставляет payload на подписку. Возвращает ErrSubscriptionGone
	// при постоянной недоступности endpoint, иную ошибку — при временном сбое.
	Send(ctx context.Context, sub *models.PushSubscription, payload []byte) error
}

// WebPushSender реализует Sender поверх протокола Web Push с VAPID.
type WebPushSender struct {
	opts *webpush.Options
}

// NewWebPushSender создаёт WebPushSender из конфигурации VAPID-ключей.
func NewWebPushSender(cfg config.Push) *WebPushSender {
	return &WebPushSender{
		opts: &webpush.Options{
			Subscriber:      cfg.Subscriber,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTL:             cfg.PushTTL,
		},
	}
}

// Send шифрует payload ключами подписки и доставляет его на endpoint.
func (s *WebPushSender) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) error {
	const op = "push.Send"

	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, s.opts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%s: %w", op, ErrSubscriptionGone)
	default:
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
}
