package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"chefcart-service/internal/domain"
)

// Initialize the configuration schema: delivery zone, fee tiers, and
// per-category minimum-order settings.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createZonesQuery := `
	CREATE TABLE IF NOT EXISTS delivery_zones (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		center_lat DOUBLE PRECISION NOT NULL,
		center_lon DOUBLE PRECISION NOT NULL,
		max_radius_km DOUBLE PRECISION NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);
	`

	createTiersQuery := `
	CREATE TABLE IF NOT EXISTS delivery_fee_tiers (
		zone_id BIGINT NOT NULL REFERENCES delivery_zones(id) ON DELETE CASCADE,
		min_km DOUBLE PRECISION NOT NULL,
		max_km DOUBLE PRECISION NOT NULL,
		base_fee BIGINT NOT NULL,
		per_km_fee BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (zone_id, min_km)
	);
	`

	createMinOrdersQuery := `
	CREATE TABLE IF NOT EXISTS category_min_orders (
		category_id TEXT PRIMARY KEY,
		min_order_amount BIGINT NOT NULL
	);
	`

	statements := []string{
		createZonesQuery,
		createTiersQuery,
		createMinOrdersQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type zoneSeed struct {
	Name        string           `json:"name"`
	CenterLat   float64          `json:"center_lat"`
	CenterLon   float64          `json:"center_lon"`
	MaxRadiusKm float64          `json:"max_radius_km"`
	Tiers       []domain.FeeTier `json:"tiers"`
}

type configSeed struct {
	Zone      zoneSeed         `json:"zone"`
	MinOrders map[string]int64 `json:"min_orders"`
}

// Populate the configuration tables from a JSON seed file. The seeded zone
// replaces any existing active zone.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed config: read %q: %w", jsonPath, err)
	}

	var seed configSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed config: parse json: %w", err)
	}

	zone := &domain.DeliveryZone{
		Name:        strings.TrimSpace(seed.Zone.Name),
		Center:      domain.Coordinates{Lat: seed.Zone.CenterLat, Lon: seed.Zone.CenterLon},
		MaxRadiusKm: seed.Zone.MaxRadiusKm,
		Tiers:       seed.Zone.Tiers,
	}
	if zone.Name == "" {
		return errors.New("seed config: zone name must be non-empty")
	}
	if err := zone.Validate(); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}
	for categoryID, min := range seed.MinOrders {
		if strings.TrimSpace(categoryID) == "" {
			return errors.New("seed config: empty category id in min_orders")
		}
		if min <= 0 {
			return fmt.Errorf("seed config: category %q: minimum must be positive, got %d", categoryID, min)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed config: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE delivery_zones SET active = FALSE WHERE active`); err != nil {
		return fmt.Errorf("seed config: deactivate zones: %w", err)
	}

	var zoneID int64
	insertZoneQuery := `
	INSERT INTO delivery_zones (name, center_lat, center_lon, max_radius_km, active)
	VALUES ($1, $2, $3, $4, TRUE)
	RETURNING id;
	`
	if err := tx.QueryRow(insertZoneQuery,
		zone.Name, zone.Center.Lat, zone.Center.Lon, zone.MaxRadiusKm,
	).Scan(&zoneID); err != nil {
		return fmt.Errorf("seed config: insert zone %q: %w", zone.Name, err)
	}

	tierStmt, err := tx.Prepare(`
	INSERT INTO delivery_fee_tiers (zone_id, min_km, max_km, base_fee, per_km_fee)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("seed config: prepare tier insert: %w", err)
	}
	defer tierStmt.Close()

	for _, t := range zone.Tiers {
		if _, err := tierStmt.Exec(zoneID, t.MinKm, t.MaxKm, t.BaseFee, t.PerKmFee); err != nil {
			return fmt.Errorf("seed config: insert tier min_km=%v: %w", t.MinKm, err)
		}
	}

	minStmt, err := tx.Prepare(`
	INSERT INTO category_min_orders (category_id, min_order_amount)
	VALUES ($1, $2)
	ON CONFLICT (category_id) DO UPDATE SET min_order_amount = EXCLUDED.min_order_amount;
	`)
	if err != nil {
		return fmt.Errorf("seed config: prepare min-order insert: %w", err)
	}
	defer minStmt.Close()

	for categoryID, min := range seed.MinOrders {
		if _, err := minStmt.Exec(categoryID, min); err != nil {
			return fmt.Errorf("seed config: insert min order category=%q: %w", categoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed config: commit tx: %w", err)
	}

	return nil
}
