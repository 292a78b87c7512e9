// Package car содержит бизнес-логику работы с автомобилями.
//
// Чтение карточки автомобиля идёт через сквозной кэш: промах кэша
// приводит к чтению из хранилища и записи результата обратно. Любая
// мутация инвалидирует запись кэша. Ошибки кэша не фатальны — сервис
// просто идёт в хранилище.
package car

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carbuddy/backend/internal/lib/sl"
	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

const cacheTTL = 5 * time.Minute

// CarRepository описывает контракт для работы с автомобилями.
type CarRepository interface {
	// CreateCar сохраняет новый автомобиль и возвращает его UID.
	CreateCar(ctx context.Context, car models.Car) (string, error)
	// GetCarByUID возвращает автомобиль по UID.
	GetCarByUID(ctx context.Context, carUID string) (*models.Car, error)
	// ListCarsByOwner возвращает все автомобили владельца.
	ListCarsByOwner(ctx context.Context, ownerUID string) ([]*models.Car, error)
	// UpdateCar обновляет атрибуты автомобиля.
	UpdateCar(ctx context.Context, car models.Car) error
	// DeleteCar удаляет автомобиль.
	DeleteCar(ctx context.Context, carUID string) error
}

// Cache описывает контракт сквозного кэша чтения.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CarService отвечает за операции с автомобилями и проверку владения.
type CarService struct {
	repo  CarRepository
	cache Cache
	log   *slog.Logger
}

// NewCarService создает новый экземпляр CarService.
func NewCarService(repo CarRepository, cache Cache, log *slog.Logger) *CarService {
	return &CarService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(carUID string) string {
	return "car:" + carUID
}

// Create сохраняет новый автомобиль за владельцем и возвращает его UID.
func (s *CarService) Create(ctx context.Context, ownerUID string, car models.Car) (string, error) {
	car.UID = uuid.NewString()
	car.OwnerUID = ownerUID
	return s.repo.CreateCar(ctx, car)
}

// Get возвращает автомобиль владельца. Чужой или несуществующий
// автомобиль неразличимы: в обоих случаях ErrNotFound.
func (s *CarService) Get(ctx context.Context, ownerUID, carUID string) (*models.Car, error) {
	const op = "car.Get"

	cached := &models.Car{}
	found, err := s.cache.Get(cacheKey(carUID), cached)
	if err != nil {
		s.log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		if cached.OwnerUID != ownerUID {
			return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
		return cached, nil
	}

	car, err := s.repo.GetCarByUID(ctx, carUID)
	if err != nil {
		return nil, err
	}
	if car.OwnerUID != ownerUID {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	if err := s.cache.Set(cacheKey(carUID), car, cacheTTL); err != nil {
		s.log.Warn("cache write failed", sl.Err(err))
	}
	return car, nil
}

// List возвращает все автомобили владельца.
func (s *CarService) List(ctx context.Context, ownerUID string) ([]*models.Car, error) {
	return s.repo.ListCarsByOwner(ctx, ownerUID)
}

// Update обновляет автомобиль владельца и инвалидирует кэш.
func (s *CarService) Update(ctx context.Context, ownerUID string, car models.Car) error {
	if _, err := s.authorize(ctx, ownerUID, car.UID); err != nil {
		return err
	}
	if err := s.repo.UpdateCar(ctx, car); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(car.UID)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
	return nil
}

// Delete удаляет автомобиль владельца. Ремонты, расходы и план проверки
// жидкостей удаляются каскадно.
func (s *CarService) Delete(ctx context.Context, ownerUID, carUID string) error {
	if _, err := s.authorize(ctx, ownerUID, carUID); err != nil {
		return err
	}
	if err := s.repo.DeleteCar(ctx, carUID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(carUID)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
	return nil
}

// Authorize проверяет, что автомобиль существует и принадлежит владельцу.
// Используется смежными сервисами (ремонты, расходы, планы проверок).
func (s *CarService) Authorize(ctx context.Context, ownerUID, carUID string) (*models.Car, error) {
	return s.authorize(ctx, ownerUID, carUID)
}

func (s *CarService) authorize(ctx context.Context, ownerUID, carUID string) (*models.Car, error) {
	const op = "car.authorize"
	car, err := s.repo.GetCarByUID(ctx, carUID)
	if err != nil {
		return nil, err
	}
	if car.OwnerUID != ownerUID {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return car, nil
}
