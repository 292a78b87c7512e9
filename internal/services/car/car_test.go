package car

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carbuddy/backend/internal/models"
	"github.com/carbuddy/backend/internal/storage/repository"
)

type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) CreateCar(ctx context.Context, car models.Car) (string, error) {
	args := m.Called(ctx, car)
	return args.String(0), args.Error(1)
}

func (m *MockCarRepository) GetCarByUID(ctx context.Context, carUID string) (*models.Car, error) {
	args := m.Called(ctx, carUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarRepository) ListCarsByOwner(ctx context.Context, ownerUID string) ([]*models.Car, error) {
	args := m.Called(ctx, ownerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Car), args.Error(1)
}

func (m *MockCarRepository) UpdateCar(ctx context.Context, car models.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) DeleteCar(ctx context.Context, carUID string) error {
	args := m.Called(ctx, carUID)
	return args.Error(0)
}

// FakeCache — кэш в памяти, чтобы проверять сквозное чтение и
// инвалидацию без redis.
type FakeCache struct {
	values map[string]*models.Car
	sets   int
	dels   int
}

func NewFakeCache() *FakeCache {
	return &FakeCache{values: make(map[string]*models.Car)}
}

func (f *FakeCache) Get(key string, result any) (bool, error) {
	car, ok := f.values[key]
	if !ok {
		return false, nil
	}
	*result.(*models.Car) = *car
	return true, nil
}

func (f *FakeCache) Set(key string, value any, _ time.Duration) error {
	car := value.(*models.Car)
	copied := *car
	f.values[key] = &copied
	f.sets++
	return nil
}

func (f *FakeCache) Invalidate(key string) error {
	delete(f.values, key)
	f.dels++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCarService_Get_ReadThroughCache(t *testing.T) {
	repo := new(MockCarRepository)
	cache := NewFakeCache()
	service := NewCarService(repo, cache, discardLogger())

	stored := &models.Car{UID: "car-1", OwnerUID: "uid-1", VIN: "1HGCM82633A004352", Make: "Honda", Model: "Accord"}
	repo.On("GetCarByUID", mock.Anything, "car-1").Return(stored, nil).Once()

	first, err := service.Get(context.Background(), "uid-1", "car-1")
	require.NoError(t, err)
	assert.Equal(t, "Honda", first.Make)
	assert.Equal(t, 1, cache.sets)

	// Повторное чтение обслуживается из кэша, хранилище не трогается.
	second, err := service.Get(context.Background(), "uid-1", "car-1")
	require.NoError(t, err)
	assert.Equal(t, first.UID, second.UID)

	repo.AssertNumberOfCalls(t, "GetCarByUID", 1)
}

func TestCarService_Get_ForeignCarLooksAbsent(t *testing.T) {
	repo := new(MockCarRepository)
	cache := NewFakeCache()
	service := NewCarService(repo, cache, discardLogger())

	stored := &models.Car{UID: "car-1", OwnerUID: "uid-other"}
	repo.On("GetCarByUID", mock.Anything, "car-1").Return(stored, nil)

	_, err := service.Get(context.Background(), "uid-1", "car-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCarService_Get_CachedForeignCarLooksAbsent(t *testing.T) {
	repo := new(MockCarRepository)
	cache := NewFakeCache()
	service := NewCarService(repo, cache, discardLogger())

	cache.values["car:car-1"] = &models.Car{UID: "car-1", OwnerUID: "uid-other"}

	_, err := service.Get(context.Background(), "uid-1", "car-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	repo.AssertNotCalled(t, "GetCarByUID")
}

func TestCarService_Update_InvalidatesCache(t *testing.T) {
	repo := new(MockCarRepository)
	cache := NewFakeCache()
	service := NewCarService(repo, cache, discardLogger())

	stored := &models.Car{UID: "car-1", OwnerUID: "uid-1"}
	cache.values["car:car-1"] = stored
	repo.On("GetCarByUID", mock.Anything, "car-1").Return(stored, nil)
	repo.On("UpdateCar", mock.Anything, mock.Anything).Return(nil)

	updated := models.Car{UID: "car-1", OwnerUID: "uid-1", Kilometers: 120000}
	require.NoError(t, service.Update(context.Background(), "uid-1", updated))

	assert.Equal(t, 1, cache.dels)
	assert.NotContains(t, cache.values, "car:car-1")
}

func TestCarService_Delete_OwnershipEnforced(t *testing.T) {
	repo := new(MockCarRepository)
	cache := NewFakeCache()
	service := NewCarService(repo, cache, discardLogger())

	stored := &models.Car{UID: "car-1", OwnerUID: "uid-other"}
	repo.On("GetCarByUID", mock.Anything, "car-1").Return(stored, nil)

	err := service.Delete(context.Background(), "uid-1", "car-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	repo.AssertNotCalled(t, "DeleteCar")
}

func TestCarService_Create_AssignsOwnerAndUID(t *testing.T) {
	repo := new(MockCarRepository)
	cache := NewFakeCache()
	service := NewCarService(repo, cache, discardLogger())

	repo.On("CreateCar", mock.Anything, mock.MatchedBy(func(c models.Car) bool {
		return c.OwnerUID == "uid-1" && c.UID != ""
	})).Return("generated-uid", nil)

	uid, err := service.Create(context.Background(), "uid-1", models.Car{VIN: "1HGCM82633A004352"})
	require.NoError(t, err)
	assert.Equal(t, "generated-uid", uid)
	repo.AssertExpectations(t)
}
