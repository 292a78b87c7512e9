// Package expense содержит бизнес-логику учёта расходов.
package expense

import (
	"context"

	"github.com/carbuddy/backend/internal/models"
)

// ExpenseRepository описывает контракт для работы с расходами.
type ExpenseRepository interface {
	// CreateExpense сохраняет запись о расходе и возвращает её ID.
	CreateExpense(ctx context.Context, expense models.Expense) (int64, error)
	// ListExpensesByCar возвращает расходы автомобиля.
	ListExpensesByCar(ctx context.Context, carUID string) ([]*models.Expense, error)
}

// CarAuthorizer проверяет, что автомобиль принадлежит владельцу.
type CarAuthorizer interface {
	Authorize(ctx context.Context, ownerUID, carUID string) (*models.Car, error)
}

// ExpenseService отвечает за операции с расходами.
type ExpenseService struct {
	repo ExpenseRepository
	cars CarAuthorizer
}

// NewExpenseService создает новый экземпляр ExpenseService.
func NewExpenseService(repo ExpenseRepository, cars CarAuthorizer) *ExpenseService {
	return &ExpenseService{
		repo: repo,
		cars: cars,
	}
}

// Create добавляет запись о расходе автомобиля владельца.
func (s *ExpenseService) Create(ctx context.Context, ownerUID, carUID string, expense models.Expense) (int64, error) {
	if _, err := s.cars.Authorize(ctx, ownerUID, carUID); err != nil {
		return 0, err
	}
	expense.CarUID = carUID
	return s.repo.CreateExpense(ctx, expense)
}

// List возвращает расходы автомобиля владельца, новые первыми.
func (s *ExpenseService) List(ctx context.Context, ownerUID, carUID string) ([]*models.Expense, error) {
	if _, err := s.cars.Authorize(ctx, ownerUID, carUID); err != nil {
		return nil, err
	}
	return s.repo.ListExpensesByCar(ctx, carUID)
}
