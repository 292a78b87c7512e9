package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carbuddy/backend/internal/models"
)

// UpsertPlanByCar создаёт план проверки жидкостей для автомобиля или
// заменяет существующий (интервал и точки отсчёта перезаписываются,
// план включается заново).
func (s *Storage) UpsertPlanByCar(ctx context.Context, plan models.FluidCheckPlan) (int64, error) {
	const op = "storage.UpsertPlanByCar"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO fluid_check_plans (car_uid, interval_days, last_check, next_check, enabled)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (car_uid) DO UPDATE
			  SET interval_days = EXCLUDED.interval_days,
			      last_check = EXCLUDED.last_check,
			      next_check = EXCLUDED.next_check,
			      enabled = EXCLUDED.enabled
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		plan.CarUID, plan.IntervalDays, plan.LastCheck, plan.NextCheck,
		plan.Enabled).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetPlanByCar возвращает план проверки жидкостей автомобиля.
func (s *Storage) GetPlanByCar(ctx context.Context, carUID string) (*models.FluidCheckPlan, error) {
	const op = "storage.GetPlanByCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, car_uid, interval_days, last_check, next_check, enabled
			  FROM fluid_check_plans
			  WHERE car_uid = $1`
	p := &models.FluidCheckPlan{}
	row := s.DB.QueryRowContext(ctx, query, carUID)
	if err := row.Scan(&p.ID, &p.CarUID, &p.IntervalDays, &p.LastCheck,
		&p.NextCheck, &p.Enabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DisablePlanByCar мягко отключает план: запись остаётся, планировщик
// её больше не выбирает.
func (s *Storage) DisablePlanByCar(ctx context.Context, carUID string) error {
	const op = "storage.DisablePlanByCar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE fluid_check_plans
			  SET enabled = FALSE
			  WHERE car_uid = $1`
	res, err := s.DB.ExecContext(ctx, query, carUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListDuePlans возвращает включённые планы с next_check <= now вместе
// с данными автомобиля и владельца. Порядок строк не гарантируется.
func (s *Storage) ListDuePlans(ctx context.Context, now time.Time) ([]*models.DuePlan, error) {
	const op = "storage.ListDuePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.car_uid, p.interval_days, c.make, c.model,
			      u.uid, u.email, u.name
			  FROM fluid_check_plans p
			  JOIN cars c ON c.uid = p.car_uid
			  JOIN users u ON u.uid = c.owner_uid
			  WHERE p.enabled = TRUE AND p.next_check <= $1`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DuePlan
	for rows.Next() {
		d := &models.DuePlan{}
		if err = rows.Scan(&d.PlanID, &d.CarUID, &d.IntervalDays, &d.CarMake,
			&d.CarModel, &d.OwnerUID, &d.OwnerEmail, &d.OwnerName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReschedulePlan переносит план на следующий срок: фиксирует время
// прошедшей проверки и новое время следующей.
func (s *Storage) ReschedulePlan(ctx context.Context, planID int64, lastCheck, nextCheck time.Time) error {
	const op = "storage.ReschedulePlan"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE fluid_check_plans
			  SET last_check = $1, next_check = $2
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, lastCheck, nextCheck, planID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
