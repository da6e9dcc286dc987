package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/worklane/worklane-backend-go/internal/domain/settings"
	"github.com/worklane/worklane-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT key, value, updated_at FROM app_settings WHERE key = $1`

	var s settings.Setting
	err := q.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.Setting{}, settings.ErrSettingNotFound
		}
		return settings.Setting{}, fmt.Errorf("failed to get setting: %w", err)
	}

	return s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, setting settings.Setting) (settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO app_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
		RETURNING key, value, updated_at
	`

	var s settings.Setting
	err := q.QueryRow(ctx, query, setting.Key, setting.Value).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		return settings.Setting{}, fmt.Errorf("failed to upsert setting: %w", err)
	}

	return s, nil
}

func (r *settingsRepository) List(ctx context.Context) ([]settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT key, value, updated_at FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var result []settings.Setting
	for rows.Next() {
		var s settings.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return result, nil
}
