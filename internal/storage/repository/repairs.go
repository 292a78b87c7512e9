package repository

import (
	"context"
	"fmt"

	"github.com/carbuddy/backend/internal/models"
)

// CreateRepair сохраняет новую запись о ремонте и возвращает её ID.
func (s *Storage) CreateRepair(ctx context.Context, repair models.Repair) (int64, error) {
	const op = "storage.CreateRepair"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO repairs (car_uid, date, kind, cost, workshop, description,
			      notes, mileage_at_repair)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		repair.CarUID, repair.Date, repair.Kind, repair.Cost, repair.Workshop,
		repair.Description, repair.Notes, repair.MileageAtRepair).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListRepairsByCar возвращает историю ремонтов автомобиля, новые первыми.
func (s *Storage) ListRepairsByCar(ctx context.Context, carUID string) ([]*models.Repair, error) {
	const op = "storage.ListRepairsByCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, car_uid, date, kind, cost, workshop, description, notes,
			      mileage_at_repair, created_at
			  FROM repairs
			  WHERE car_uid = $1
			  ORDER BY date DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, carUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Repair
	for rows.Next() {
		r := &models.Repair{}
		if err = rows.Scan(&r.ID, &r.CarUID, &r.Date, &r.Kind, &r.Cost,
			&r.Workshop, &r.Description, &r.Notes, &r.MileageAtRepair,
			&r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
