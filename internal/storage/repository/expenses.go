package repository

import (
	"context"
	"fmt"

	"github.com/carbuddy/backend/internal/models"
)

// CreateExpense сохраняет новую запись о расходе и возвращает её ID.
func (s *Storage) CreateExpense(ctx context.Context, expense models.Expense) (int64, error) {
	const op = "storage.CreateExpense"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO expenses (car_uid, date, category, amount, description)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		expense.CarUID, expense.Date, expense.Category, expense.Amount,
		expense.Description).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListExpensesByCar возвращает расходы автомобиля, новые первыми.
func (s *Storage) ListExpensesByCar(ctx context.Context, carUID string) ([]*models.Expense, error) {
	const op = "storage.ListExpensesByCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, car_uid, date, category, amount, description, created_at
			  FROM expenses
			  WHERE car_uid = $1
			  ORDER BY date DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, carUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err = rows.Scan(&e.ID, &e.CarUID, &e.Date, &e.Category, &e.Amount,
			&e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
