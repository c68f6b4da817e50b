package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/furniture-server/internal/model"
)

var _ model.SettingsStore = (*SettingsRepository)(nil)

// SettingsRepository keeps the settings singleton in a one-row table.
type SettingsRepository struct {
	db *Connection
}

func NewSettingsRepository(db *Connection) *SettingsRepository {
	return &SettingsRepository{
		db: db,
	}
}

func scanSettings(row pgx.Row) (model.Settings, error) {
	var (
		values, images []byte
		updatedAt      time.Time
	)
	if err := row.Scan(&values, &images, &updatedAt); err != nil {
		return model.Settings{}, err
	}

	decodedValues, err := model.DecodeSettingsValues(values)
	if err != nil {
		return model.Settings{}, err
	}
	decodedImages, err := model.DecodeSettingsImages(images)
	if err != nil {
		return model.Settings{}, err
	}

	return model.Settings{Values: decodedValues, Images: decodedImages, UpdatedAt: updatedAt}, nil
}

func encodeSettings(s model.Settings) ([]byte, []byte, error) {
	values, err := json.Marshal(s.Values)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode settings values: %w", err)
	}
	images, err := json.Marshal(s.Images)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode settings images: %w", err)
	}
	return values, images, nil
}

func (r *SettingsRepository) Get(ctx context.Context) (model.Settings, error) {
	const query = `SELECT "values", images, updated_at FROM site_settings WHERE id = 1`

	s, err := scanSettings(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Settings{}, model.ErrNotFound
		}
		return model.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	return s, nil
}

func (r *SettingsRepository) Create(ctx context.Context, settings model.Settings) (model.Settings, error) {
	values, images, err := encodeSettings(settings)
	if err != nil {
		return model.Settings{}, err
	}

	const query = `INSERT INTO site_settings (id, "values", images, updated_at)
				   VALUES (1, $1, $2, now())
				   ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, values, images); err != nil {
		return model.Settings{}, fmt.Errorf("failed to create settings: %w", err)
	}

	return r.Get(ctx)
}

func (r *SettingsRepository) Save(ctx context.Context, settings model.Settings) (model.Settings, error) {
	values, images, err := encodeSettings(settings)
	if err != nil {
		return model.Settings{}, err
	}

	const query = `INSERT INTO site_settings (id, "values", images, updated_at)
				   VALUES (1, $1, $2, now())
				   ON CONFLICT (id) DO UPDATE
				   SET "values" = EXCLUDED."values", images = EXCLUDED.images, updated_at = EXCLUDED.updated_at
				   RETURNING "values", images, updated_at`

	saved, err := scanSettings(r.db.QueryRow(ctx, query, values, images))
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	return saved, nil
}
