package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/furniture-server/internal/model"
)

var _ model.AdminStore = (*AdminRepository)(nil)

type AdminRepository struct {
	db *Connection
}

func NewAdminRepository(db *Connection) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

const adminColumns = `id, email, password_hash, created_at, updated_at`

func scanAdmin(row pgx.Row) (model.Admin, error) {
	var admin model.Admin
	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt, &admin.UpdatedAt)
	return admin, err
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	admin, err := scanAdmin(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, model.ErrNotFound
		}
		return model.Admin{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	admin, err := scanAdmin(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, model.ErrNotFound
		}
		return model.Admin{}, fmt.Errorf("failed to get admin by id: %w", err)
	}

	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin model.Admin) (model.Admin, error) {
	query := `INSERT INTO admins (id, email, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + adminColumns

	saved, err := scanAdmin(r.db.QueryRow(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Admin{}, model.ErrAlreadyExists
		}
		return model.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}

	return saved, nil
}

func (r *AdminRepository) Update(ctx context.Context, admin model.Admin) (model.Admin, error) {
	query := `UPDATE admins SET email = $2, password_hash = $3, updated_at = $4
			  WHERE id = $1
			  RETURNING ` + adminColumns

	saved, err := scanAdmin(r.db.QueryRow(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.Admin{}, model.ErrAlreadyExists
		}
		return model.Admin{}, fmt.Errorf("failed to update admin: %w", err)
	}

	return saved, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
