// Package repair содержит бизнес-логику истории ремонтов.
package repair

import (
	"context"

	"github.com/carbuddy/backend/internal/models"
)

// RepairRepository описывает контракт для работы с ремонтами.
type RepairRepository interface {
	// CreateRepair сохраняет запись о ремонте и возвращает её ID.
	CreateRepair(ctx context.Context, repair models.Repair) (int64, error)
	// ListRepairsByCar возвращает историю ремонтов автомобиля.
	ListRepairsByCar(ctx context.Context, carUID string) ([]*models.Repair, error)
}

// CarAuthorizer проверяет, что автомобиль принадлежит владельцу.
type CarAuthorizer interface {
	Authorize(ctx context.Context, ownerUID, carUID string) (*models.Car, error)
}

// RepairService отвечает за операции с ремонтами. Все операции
// привязаны к автомобилю и требуют владения им.
type RepairService struct {
	repo RepairRepository
	cars CarAuthorizer
}

// NewRepairService создает новый экземпляр RepairService.
func NewRepairService(repo RepairRepository, cars CarAuthorizer) *RepairService {
	return &RepairService{
		repo: repo,
		cars: cars,
	}
}

// Create добавляет запись о ремонте в историю автомобиля владельца.
func (s *RepairService) Create(ctx context.Context, ownerUID, carUID string, repair models.Repair) (int64, error) {
	if _, err := s.cars.Authorize(ctx, ownerUID, carUID); err != nil {
		return 0, err
	}
	repair.CarUID = carUID
	return s.repo.CreateRepair(ctx, repair)
}

// List возвращает историю ремонтов автомобиля владельца, новые первыми.
func (s *RepairService) List(ctx context.Context, ownerUID, carUID string) ([]*models.Repair, error) {
	if _, err := s.cars.Authorize(ctx, ownerUID, carUID); err != nil {
		return nil, err
	}
	return s.repo.ListRepairsByCar(ctx, carUID)
}
