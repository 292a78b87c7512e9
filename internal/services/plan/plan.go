// Package plan содержит бизнес-логику планов проверки жидкостей.
//
// У автомобиля не больше одного плана: повторная установка заменяет
// интервал и заново отсчитывает срок от текущего момента. Удаление
// плана мягкое — план выключается, строка остаётся.
package plan

import (
	"context"
	"time"

	"github.com/carbuddy/backend/internal/models"
)

// PlanRepository описывает контракт для работы с планами проверок.
type PlanRepository interface {
	// UpsertPlanByCar создаёт или заменяет план автомобиля.
	UpsertPlanByCar(ctx context.Context, plan models.FluidCheckPlan) (int64, error)
	// GetPlanByCar возвращает план автомобиля.
	GetPlanByCar(ctx context.Context, carUID string) (*models.FluidCheckPlan, error)
	// DisablePlanByCar выключает план автомобиля.
	DisablePlanByCar(ctx context.Context, carUID string) error
}

// CarAuthorizer проверяет, что автомобиль принадлежит владельцу.
type CarAuthorizer interface {
	Authorize(ctx context.Context, ownerUID, carUID string) (*models.Car, error)
}

// PlanService отвечает за установку, чтение и отключение планов.
type PlanService struct {
	repo PlanRepository
	cars CarAuthorizer
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cars CarAuthorizer) *PlanService {
	return &PlanService{
		repo: repo,
		cars: cars,
	}
}

// Upsert устанавливает план проверки для автомобиля владельца.
// Отсчёт начинается заново: lastCheck = сейчас,
// nextCheck = сейчас + интервал.
func (s *PlanService) Upsert(ctx context.Context, ownerUID, carUID string, intervalDays int) (*models.FluidCheckPlan, error) {
	if _, err := s.cars.Authorize(ctx, ownerUID, carUID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan := models.FluidCheckPlan{
		CarUID:       carUID,
		IntervalDays: intervalDays,
		LastCheck:    now,
		NextCheck:    now.Add(time.Duration(intervalDays) * 24 * time.Hour),
		Enabled:      true,
	}
	id, err := s.repo.UpsertPlanByCar(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return &plan, nil
}

// Get возвращает план автомобиля владельца.
func (s *PlanService) Get(ctx context.Context, ownerUID, carUID string) (*models.FluidCheckPlan, error) {
	if _, err := s.cars.Authorize(ctx, ownerUID, carUID); err != nil {
		return nil, err
	}
	return s.repo.GetPlanByCar(ctx, carUID)
}

// Disable выключает план автомобиля владельца.
func (s *PlanService) Disable(ctx context.Context, ownerUID, carUID string) error {
	if _, err := s.cars.Authorize(ctx, ownerUID, carUID); err != nil {
		return err
	}
	return s.repo.DisablePlanByCar(ctx, carUID)
}
