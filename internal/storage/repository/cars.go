package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carbuddy/backend/internal/models"
)

// CreateCar сохраняет новый автомобиль и возвращает его UID.
func (s *Storage) CreateCar(ctx context.Context, car models.Car) (string, error) {
	const op = "storage.CreateCar"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO cars (uid, owner_uid, vin, make, model, year, kilometers,
			      color, fuel_type, engine_liters, power_hp, registration_no, purchase_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		car.UID, car.OwnerUID, car.VIN, car.Make, car.Model, car.Year, car.Kilometers,
		car.Color, car.FuelType, car.EngineLiters, car.PowerHP, car.RegistrationNo,
		car.PurchaseDate).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetCarByUID возвращает автомобиль по его UID.
func (s *Storage) GetCarByUID(ctx context.Context, carUID string) (*models.Car, error) {
	const op = "storage.GetCarByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, owner_uid, vin, make, model, year, kilometers, color,
			      fuel_type, engine_liters, power_hp, registration_no, purchase_date, created_at
			  FROM cars
			  WHERE uid = $1`
	c := &models.Car{}
	var purchaseDate sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, carUID)
	if err := row.Scan(&c.UID, &c.OwnerUID, &c.VIN, &c.Make, &c.Model, &c.Year,
		&c.Kilometers, &c.Color, &c.FuelType, &c.EngineLiters, &c.PowerHP,
		&c.RegistrationNo, &purchaseDate, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if purchaseDate.Valid {
		c.PurchaseDate = &purchaseDate.Time
	}
	return c, nil
}

// ListCarsByOwner возвращает все автомобили владельца.
func (s *Storage) ListCarsByOwner(ctx context.Context, ownerUID string) ([]*models.Car, error) {
	const op = "storage.ListCarsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, owner_uid, vin, make, model, year, kilometers, color,
			      fuel_type, engine_liters, power_hp, registration_no, purchase_date, created_at
			  FROM cars
			  WHERE owner_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Car
	for rows.Next() {
		c := &models.Car{}
		var purchaseDate sql.NullTime
		if err = rows.Scan(&c.UID, &c.OwnerUID, &c.VIN, &c.Make, &c.Model, &c.Year,
			&c.Kilometers, &c.Color, &c.FuelType, &c.EngineLiters, &c.PowerHP,
			&c.RegistrationNo, &purchaseDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if purchaseDate.Valid {
			c.PurchaseDate = &purchaseDate.Time
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCarSummariesByOwner возвращает краткие сводки автомобилей владельца
// для встраивания в аутентифицированного принципала.
func (s *Storage) ListCarSummariesByOwner(ctx context.Context, ownerUID string) ([]models.CarSummary, error) {
	const op = "storage.ListCarSummariesByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, vin, make, model, year, kilometers, color, created_at, owner_uid
			  FROM cars
			  WHERE owner_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.CarSummary, 0)
	for rows.Next() {
		var c models.CarSummary
		if err = rows.Scan(&c.UID, &c.VIN, &c.Make, &c.Model, &c.Year,
			&c.Kilometers, &c.Color, &c.CreatedAt, &c.OwnerUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCar обновляет атрибуты автомобиля по его UID.
func (s *Storage) UpdateCar(ctx context.Context, car models.Car) error {
	const op = "storage.UpdateCar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cars
			  SET vin = $1, make = $2, model = $3, year = $4, kilometers = $5,
			      color = $6, fuel_type = $7, engine_liters = $8, power_hp = $9,
			      registration_no = $10, purchase_date = $11
			  WHERE uid = $12`
	res, err := s.DB.ExecContext(ctx, query,
		car.VIN, car.Make, car.Model, car.Year, car.Kilometers, car.Color,
		car.FuelType, car.EngineLiters, car.PowerHP, car.RegistrationNo,
		car.PurchaseDate, car.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeleteCar удаляет автомобиль по UID. Ремонты, расходы и план проверки
// жидкостей удаляются каскадно на уровне схемы.
func (s *Storage) DeleteCar(ctx context.Context, carUID string) error {
	const op = "storage.DeleteCar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cars WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, carUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
