package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chefcart-service/internal/platform/obs"
)

// SQL-backed implementation of the SettingsRepository port.
type SQLSettingsRepository struct{ DB *sql.DB }

func NewSQLSettingsRepository(db *sql.DB) *SQLSettingsRepository {
	return &SQLSettingsRepository{DB: db}
}

// MinOrderSettings returns the configured category -> minimum order map.
// Categories absent from the map fall back to the domain default.
func (r *SQLSettingsRepository) MinOrderSettings(ctx context.Context) (_ map[string]int64, err error) {
	defer obs.Time(ctx, "settings.MinOrderSettings")(&err)

	if r.DB == nil {
		return nil, errors.New("settings repository: DB is nil")
	}

	query := `
	SELECT
		category_id,
		min_order_amount
	FROM category_min_orders;
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("min order settings: query category_min_orders: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]int64)
	for rows.Next() {
		var categoryID string
		var min int64
		if err := rows.Scan(&categoryID, &min); err != nil {
			return nil, fmt.Errorf("min order settings: scan row: %w", err)
		}
		settings[categoryID] = min
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("min order settings: row iteration: %w", err)
	}

	return settings, nil
}
