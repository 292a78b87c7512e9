// Package reminder реализует планировщик напоминаний о проверке
// жидкостей.
//
// Один тик: выбрать просроченные включённые планы, на каждый план
// собрать одно уведомление и попытаться доставить его на все подписки
// владельца, затем перенести план на новый срок. Ошибки хранилища
// прерывают тик; ошибки доставки локализуются внутри подписки — мёртвая
// подписка удаляется, временный сбой логируется и пропускается. Срок
// переносится от времени начала тика, а не от старого next_check,
// поэтому пропущенные тики не накапливают дрейф.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/carbuddy/backend/internal/lib/rabbitmq"
	"github.com/carbuddy/backend/internal/lib/sl"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/push"
)

var (
	remindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carbuddy_reminders_sent_total",
		Help: "Push reminders delivered successfully.",
	})
	remindersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carbuddy_reminders_failed_total",
		Help: "Push reminder deliveries that failed transiently.",
	})
	subscriptionsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carbuddy_push_subscriptions_pruned_total",
		Help: "Push subscriptions removed after a permanent delivery failure.",
	})
)

// PlanStore описывает контракт планировщика к планам проверок.
type PlanStore interface {
	// ListDuePlans возвращает просроченные включённые планы.
	ListDuePlans(ctx context.Context, now time.Time) ([]*models.DuePlan, error)
	// ReschedulePlan переносит план на новый срок.
	ReschedulePlan(ctx context.Context, planID int64, lastCheck, nextCheck time.Time) error
}

// SubscriptionStore описывает контракт планировщика к подпискам.
type SubscriptionStore interface {
	// ListPushSubscriptionsByUser возвращает подписки пользователя.
	ListPushSubscriptionsByUser(ctx context.Context, userUID string) ([]*models.PushSubscription, error)
	// DeletePushSubscriptionByEndpoint удаляет подписку по endpoint.
	DeletePushSubscriptionByEndpoint(ctx context.Context, endpoint string) error
}

// EventPublisher публикует событие напоминания для e-mail канала.
type EventPublisher interface {
	Publish(exchange, routingKey string, message any) error
}

// ReminderService — планировщик напоминаний.
type ReminderService struct {
	plans        PlanStore
	subs         SubscriptionStore
	sender       push.Sender
	publisher    EventPublisher
	log          *slog.Logger
	tickInterval time.Duration
}

// NewReminderService создает новый экземпляр ReminderService.
// publisher может быть nil — тогда e-mail канал выключен.
func NewReminderService(plans PlanStore, subs SubscriptionStore, sender push.Sender,
	publisher EventPublisher, log *slog.Logger, tickInterval time.Duration) *ReminderService {
	return &ReminderService{
		plans:        plans,
		subs:         subs,
		sender:       sender,
		publisher:    publisher,
		log:          log,
		tickInterval: tickInterval,
	}
}

// Run запускает цикл планировщика: немедленный первый тик, затем тик
// с фиксированным интервалом. Тики не перекрываются. Ошибка тика
// логируется, следующий тик выполняется в срок. Возвращается, когда
// контекст отменён.
func (s *ReminderService) Run(ctx context.Context) {
	s.log.Info("reminder scheduler started", slog.Duration("interval", s.tickInterval))

	if err := s.RunTick(ctx, time.Now().UTC()); err != nil {
		s.log.Error("tick failed", sl.Err(err))
	}

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunTick(ctx, time.Now().UTC()); err != nil {
				s.log.Error("tick failed", sl.Err(err))
			}
		}
	}
}

// RunTick выполняет один проход планировщика на момент now.
func (s *ReminderService) RunTick(ctx context.Context, now time.Time) error {
	const op = "reminder.RunTick"

	due, err := s.plans.ListDuePlans(ctx, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(due) == 0 {
		return nil
	}
	s.log.Info("processing due plans", slog.Int("count", len(due)))

	for _, plan := range due {
		if err := s.processPlan(ctx, plan, now); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// processPlan рассылает напоминание по одному плану и переносит его
// на новый срок. Возвращает только ошибки хранилища.
func (s *ReminderService) processPlan(ctx context.Context, plan *models.DuePlan, now time.Time) error {
	subs, err := s.subs.ListPushSubscriptionsByUser(ctx, plan.OwnerUID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(models.ReminderPayload{
		Title: "Fluid check due",
		Body:  fmt.Sprintf("Time to check the fluids on your %s %s", plan.CarMake, plan.CarModel),
	})
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if err := s.sender.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, push.ErrSubscriptionGone) {
				if delErr := s.subs.DeletePushSubscriptionByEndpoint(ctx, sub.Endpoint); delErr != nil {
					return delErr
				}
				subscriptionsPruned.Inc()
				s.log.Info("pruned dead push subscription",
					slog.String("endpoint", sub.Endpoint), sl.UID(plan.OwnerUID))
				continue
			}
			remindersFailed.Inc()
			s.log.Warn("push delivery failed",
				slog.String("endpoint", sub.Endpoint), sl.Err(err))
			continue
		}
		remindersSent.Inc()
	}

	nextCheck := now.Add(time.Duration(plan.IntervalDays) * 24 * time.Hour)

	if s.publisher != nil {
		event := models.ReminderEvent{
			Email:     plan.OwnerEmail,
			Name:      plan.OwnerName,
			CarMake:   plan.CarMake,
			CarModel:  plan.CarModel,
			NextCheck: nextCheck,
		}
		if err := s.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.FluidCheckRoutingKey, event); err != nil {
			s.log.Warn("failed to publish reminder event", sl.Err(err))
		}
	}

	return s.plans.ReschedulePlan(ctx, plan.PlanID, now, nextCheck)
}
