package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/push"
)

type MockPlanStore struct {
	mock.Mock
}

func (m *MockPlanStore) ListDuePlans(ctx context.Context, now time.Time) ([]*models.DuePlan, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DuePlan), args.Error(1)
}

func (m *MockPlanStore) ReschedulePlan(ctx context.Context, planID int64, lastCheck, nextCheck time.Time) error {
	args := m.Called(ctx, planID, lastCheck, nextCheck)
	return args.Error(0)
}

type MockSubscriptionStore struct {
	mock.Mock
}

func (m *MockSubscriptionStore) ListPushSubscriptionsByUser(ctx context.Context, userUID string) ([]*models.PushSubscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PushSubscription), args.Error(1)
}

func (m *MockSubscriptionStore) DeletePushSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	args := m.Called(ctx, endpoint)
	return args.Error(0)
}

// FakeSender записывает доставки и сообщает о заранее помеченных
// endpoint как о мёртвых или временно недоступных.
type FakeSender struct {
	gone      map[string]bool
	transient map[string]bool
	delivered map[string][][]byte
}

func NewFakeSender() *FakeSender {
	return &FakeSender{
		gone:      make(map[string]bool),
		transient: make(map[string]bool),
		delivered: make(map[string][][]byte),
	}
}

func (f *FakeSender) Send(_ context.Context, sub *models.PushSubscription, payload []byte) error {
	if f.gone[sub.Endpoint] {
		return push.ErrSubscriptionGone
	}
	if f.transient[sub.Endpoint] {
		return errors.New("push service unavailable")
	}
	f.delivered[sub.Endpoint] = append(f.delivered[sub.Endpoint], payload)
	return nil
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, message any) error {
	args := m.Called(exchange, routingKey, message)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunTick_ReminderFires(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	sender := NewFakeSender()
	service := NewReminderService(plans, subs, sender, nil, discardLogger(), time.Minute)

	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	due := []*models.DuePlan{{
		PlanID:       1,
		CarUID:       "car-1",
		IntervalDays: 14,
		CarMake:      "Toyota",
		CarModel:     "Corolla",
		OwnerUID:     "uid-1",
	}}
	subscriptions := []*models.PushSubscription{
		{ID: 1, UserUID: "uid-1", Endpoint: "https://push.example/alive"},
		{ID: 2, UserUID: "uid-1", Endpoint: "https://push.example/gone"},
	}
	sender.gone["https://push.example/gone"] = true

	plans.On("ListDuePlans", mock.Anything, now).Return(due, nil)
	subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-1").Return(subscriptions, nil)
	subs.On("DeletePushSubscriptionByEndpoint", mock.Anything, "https://push.example/gone").Return(nil)

	wantNext := time.Date(2024, 1, 29, 8, 0, 0, 0, time.UTC)
	plans.On("ReschedulePlan", mock.Anything, int64(1), now, wantNext).Return(nil)

	require.NoError(t, service.RunTick(context.Background(), now))

	// Живая подписка получила ровно один payload с маркой и моделью.
	require.Len(t, sender.delivered["https://push.example/alive"], 1)
	var payload models.ReminderPayload
	require.NoError(t, json.Unmarshal(sender.delivered["https://push.example/alive"][0], &payload))
	assert.Equal(t, "Fluid check due", payload.Title)
	assert.Contains(t, payload.Body, "Toyota")
	assert.Contains(t, payload.Body, "Corolla")

	assert.Empty(t, sender.delivered["https://push.example/gone"])
	plans.AssertExpectations(t)
	subs.AssertExpectations(t)
}

func TestRunTick_RescheduleFromTickStart_EvenWhenAllDeliveriesFail(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	sender := NewFakeSender()
	sender.transient["https://push.example/flaky"] = true
	service := NewReminderService(plans, subs, sender, nil, discardLogger(), time.Minute)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	due := []*models.DuePlan{{PlanID: 7, CarUID: "car-7", IntervalDays: 30, OwnerUID: "uid-7"}}

	plans.On("ListDuePlans", mock.Anything, now).Return(due, nil)
	subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-7").
		Return([]*models.PushSubscription{{Endpoint: "https://push.example/flaky"}}, nil)
	plans.On("ReschedulePlan", mock.Anything, int64(7), now, now.Add(30*24*time.Hour)).Return(nil)

	require.NoError(t, service.RunTick(context.Background(), now))
	plans.AssertExpectations(t)
}

func TestRunTick_RescheduleWithZeroSubscriptions(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	service := NewReminderService(plans, subs, NewFakeSender(), nil, discardLogger(), time.Minute)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	due := []*models.DuePlan{{PlanID: 3, IntervalDays: 7, OwnerUID: "uid-3"}}

	plans.On("ListDuePlans", mock.Anything, now).Return(due, nil)
	subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-3").
		Return([]*models.PushSubscription{}, nil)
	plans.On("ReschedulePlan", mock.Anything, int64(3), now, now.Add(7*24*time.Hour)).Return(nil)

	require.NoError(t, service.RunTick(context.Background(), now))
	plans.AssertExpectations(t)
}

func TestRunTick_NoDuePlans_NoWrites(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	service := NewReminderService(plans, subs, NewFakeSender(), nil, discardLogger(), time.Minute)

	now := time.Now().UTC()
	plans.On("ListDuePlans", mock.Anything, now).Return([]*models.DuePlan{}, nil)

	// Два тика подряд без сдвига часов: ни одной записи в хранилище.
	require.NoError(t, service.RunTick(context.Background(), now))
	require.NoError(t, service.RunTick(context.Background(), now))

	plans.AssertNumberOfCalls(t, "ListDuePlans", 2)
	plans.AssertNotCalled(t, "ReschedulePlan")
	subs.AssertNotCalled(t, "ListPushSubscriptionsByUser")
	subs.AssertNotCalled(t, "DeletePushSubscriptionByEndpoint")
}

func TestRunTick_StoreErrorsAbortTick(t *testing.T) {
	now := time.Now().UTC()
	storeErr := errors.New("connection reset")

	t.Run("list due plans fails", func(t *testing.T) {
		plans := new(MockPlanStore)
		subs := new(MockSubscriptionStore)
		service := NewReminderService(plans, subs, NewFakeSender(), nil, discardLogger(), time.Minute)

		plans.On("ListDuePlans", mock.Anything, now).Return(nil, storeErr)

		err := service.RunTick(context.Background(), now)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("list subscriptions fails", func(t *testing.T) {
		plans := new(MockPlanStore)
		subs := new(MockSubscriptionStore)
		service := NewReminderService(plans, subs, NewFakeSender(), nil, discardLogger(), time.Minute)

		plans.On("ListDuePlans", mock.Anything, now).
			Return([]*models.DuePlan{{PlanID: 1, IntervalDays: 7, OwnerUID: "uid-1"}}, nil)
		subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-1").Return(nil, storeErr)

		err := service.RunTick(context.Background(), now)
		assert.ErrorIs(t, err, storeErr)
		plans.AssertNotCalled(t, "ReschedulePlan")
	})

	t.Run("prune fails", func(t *testing.T) {
		plans := new(MockPlanStore)
		subs := new(MockSubscriptionStore)
		sender := NewFakeSender()
		sender.gone["https://push.example/gone"] = true
		service := NewReminderService(plans, subs, sender, nil, discardLogger(), time.Minute)

		plans.On("ListDuePlans", mock.Anything, now).
			Return([]*models.DuePlan{{PlanID: 1, IntervalDays: 7, OwnerUID: "uid-1"}}, nil)
		subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-1").
			Return([]*models.PushSubscription{{Endpoint: "https://push.example/gone"}}, nil)
		subs.On("DeletePushSubscriptionByEndpoint", mock.Anything, "https://push.example/gone").
			Return(storeErr)

		err := service.RunTick(context.Background(), now)
		assert.ErrorIs(t, err, storeErr)
		plans.AssertNotCalled(t, "ReschedulePlan")
	})

	t.Run("reschedule fails", func(t *testing.T) {
		plans := new(MockPlanStore)
		subs := new(MockSubscriptionStore)
		service := NewReminderService(plans, subs, NewFakeSender(), nil, discardLogger(), time.Minute)

		plans.On("ListDuePlans", mock.Anything, now).
			Return([]*models.DuePlan{{PlanID: 1, IntervalDays: 7, OwnerUID: "uid-1"}}, nil)
		subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-1").
			Return([]*models.PushSubscription{}, nil)
		plans.On("ReschedulePlan", mock.Anything, int64(1), now, now.Add(7*24*time.Hour)).
			Return(storeErr)

		err := service.RunTick(context.Background(), now)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestRunTick_OtherSubscriptionsSurvivePrune(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	sender := NewFakeSender()
	sender.gone["https://push.example/gone"] = true
	service := NewReminderService(plans, subs, sender, nil, discardLogger(), time.Minute)

	now := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	plans.On("ListDuePlans", mock.Anything, now).
		Return([]*models.DuePlan{{PlanID: 2, IntervalDays: 7, OwnerUID: "uid-2"}}, nil)
	subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-2").
		Return([]*models.PushSubscription{
			{Endpoint: "https://push.example/a"},
			{Endpoint: "https://push.example/gone"},
			{Endpoint: "https://push.example/b"},
		}, nil)
	subs.On("DeletePushSubscriptionByEndpoint", mock.Anything, "https://push.example/gone").Return(nil)
	plans.On("ReschedulePlan", mock.Anything, int64(2), now, now.Add(7*24*time.Hour)).Return(nil)

	require.NoError(t, service.RunTick(context.Background(), now))

	// Удалена ровно одна подписка, остальные получили доставку.
	subs.AssertNumberOfCalls(t, "DeletePushSubscriptionByEndpoint", 1)
	assert.Len(t, sender.delivered["https://push.example/a"], 1)
	assert.Len(t, sender.delivered["https://push.example/b"], 1)
}

func TestRunTick_PublishesEmailEvent(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	publisher := new(MockPublisher)
	service := NewReminderService(plans, subs, NewFakeSender(), publisher, discardLogger(), time.Minute)

	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	plans.On("ListDuePlans", mock.Anything, now).
		Return([]*models.DuePlan{{
			PlanID:       1,
			IntervalDays: 14,
			CarMake:      "Toyota",
			CarModel:     "Corolla",
			OwnerUID:     "uid-1",
			OwnerEmail:   "a@b.com",
			OwnerName:    "Alice",
		}}, nil)
	subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-1").
		Return([]*models.PushSubscription{}, nil)
	plans.On("ReschedulePlan", mock.Anything, int64(1), now, now.Add(14*24*time.Hour)).Return(nil)

	publisher.On("Publish", "notifications", "fluidcheck", mock.MatchedBy(func(msg any) bool {
		event, ok := msg.(models.ReminderEvent)
		return ok && event.Email == "a@b.com" && event.CarMake == "Toyota"
	})).Return(nil)

	require.NoError(t, service.RunTick(context.Background(), now))
	publisher.AssertExpectations(t)
}

func TestRunTick_PublishFailureIsNotFatal(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	publisher := new(MockPublisher)
	service := NewReminderService(plans, subs, NewFakeSender(), publisher, discardLogger(), time.Minute)

	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	plans.On("ListDuePlans", mock.Anything, now).
		Return([]*models.DuePlan{{PlanID: 1, IntervalDays: 14, OwnerUID: "uid-1"}}, nil)
	subs.On("ListPushSubscriptionsByUser", mock.Anything, "uid-1").
		Return([]*models.PushSubscription{}, nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("broker down"))
	plans.On("ReschedulePlan", mock.Anything, int64(1), now, now.Add(14*24*time.Hour)).Return(nil)

	require.NoError(t, service.RunTick(context.Background(), now))
	plans.AssertExpectations(t)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	plans := new(MockPlanStore)
	subs := new(MockSubscriptionStore)
	service := NewReminderService(plans, subs, NewFakeSender(), nil, discardLogger(), 50*time.Millisecond)

	plans.On("ListDuePlans", mock.Anything, mock.Anything).Return([]*models.DuePlan{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Run(ctx)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}

	// Немедленный первый тик плюс хотя бы один по таймеру.
	assert.GreaterOrEqual(t, len(plans.Calls), 2)
}
