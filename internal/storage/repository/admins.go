package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carbuddy/backend/internal/models"
)

// GetAdminByUsername возвращает администратора по его username.
func (s *Storage) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	const op = "storage.GetAdminByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, created_at
			  FROM admins
			  WHERE username = $1`
	return s.scanAdmin(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetAdminByUID возвращает администратора по его UID.
func (s *Storage) GetAdminByUID(ctx context.Context, adminUID string) (*models.Admin, error) {
	const op = "storage.GetAdminByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, created_at
			  FROM admins
			  WHERE uid = $1`
	return s.scanAdmin(s.DB.QueryRowContext(ctx, query, adminUID), op)
}

func (s *Storage) scanAdmin(row *sql.Row, op string) (*models.Admin, error) {
	a := &models.Admin{}
	if err := row.Scan(&a.UID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
