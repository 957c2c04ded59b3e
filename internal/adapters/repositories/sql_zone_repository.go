package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chefcart-service/internal/domain"
	"chefcart-service/internal/platform/obs"
)

// SQL-backed implementation of the ZoneRepository port. Reads the single
// active zone and its ordered fee-tier table.
type SQLZoneRepository struct{ DB *sql.DB }

func NewSQLZoneRepository(db *sql.DB) *SQLZoneRepository {
	return &SQLZoneRepository{DB: db}
}

func (r *SQLZoneRepository) LoadZone(ctx context.Context) (_ *domain.DeliveryZone, err error) {
	defer obs.Time(ctx, "zones.LoadZone")(&err)

	if r.DB == nil {
		return nil, errors.New("zone repository: DB is nil")
	}

	zoneQuery := `
	SELECT
		id,
		name,
		center_lat,
		center_lon,
		max_radius_km
	FROM delivery_zones
	WHERE active
	ORDER BY id DESC
	LIMIT 1;
	`

	var zoneID int64
	zone := &domain.DeliveryZone{}
	err = r.DB.QueryRowContext(ctx, zoneQuery).Scan(
		&zoneID, &zone.Name, &zone.Center.Lat, &zone.Center.Lon, &zone.MaxRadiusKm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("load zone: no active delivery zone configured")
	}
	if err != nil {
		return nil, fmt.Errorf("load zone: query delivery_zones: %w", err)
	}

	tiersQuery := `
	SELECT
		min_km,
		max_km,
		base_fee,
		per_km_fee
	FROM delivery_fee_tiers
	WHERE zone_id = $1
	ORDER BY min_km;
	`

	rows, err := r.DB.QueryContext(ctx, tiersQuery, zoneID)
	if err != nil {
		return nil, fmt.Errorf("load zone: query delivery_fee_tiers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.FeeTier
		if err := rows.Scan(&t.MinKm, &t.MaxKm, &t.BaseFee, &t.PerKmFee); err != nil {
			return nil, fmt.Errorf("load zone: scan tier row: %w", err)
		}
		zone.Tiers = append(zone.Tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load zone: row iteration: %w", err)
	}

	if err := zone.Validate(); err != nil {
		return nil, fmt.Errorf("load zone: %w", err)
	}

	return zone, nil
}
